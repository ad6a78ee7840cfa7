package proteintree

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CleavageOracle decides whether a digestion enzyme may cut between two
// adjacent residues. It must be a pure function of its arguments.
type CleavageOracle interface {
	IsCleavageSite(before, after byte) bool
}

// Enzyme describes the cleavage rules of a protease.
//
// A bond before|after is a cleavage site when 'before' is one of
// AminoAcidBefore and 'after' is not one of RestrictionAfter, or when
// 'after' is one of AminoAcidAfter and 'before' is not one of
// RestrictionBefore. Ambiguous residues (B, J, Z, X) match any of the
// residues they stand for.
type Enzyme struct {
	Name              string `yaml:"name"`
	AminoAcidBefore   string `yaml:"aa-before,omitempty"`
	RestrictionAfter  string `yaml:"restriction-after,omitempty"`
	AminoAcidAfter    string `yaml:"aa-after,omitempty"`
	RestrictionBefore string `yaml:"restriction-before,omitempty"`
}

const standardAminoAcids = "ACDEFGHIKLMNPQRSTVWY"

// subAminoAcids returns the residues an amino acid code can stand for.
func subAminoAcids(aa byte) string {
	switch aa {
	case 'B':
		return "DN"
	case 'J':
		return "IL"
	case 'Z':
		return "EQ"
	case 'X':
		return standardAminoAcids
	}
	return string([]byte{aa})
}

// anyOf reports whether aa, or any residue aa stands for, is in set.
func anyOf(aa byte, set string) bool {
	return strings.ContainsAny(subAminoAcids(aa), set)
}

func (e Enzyme) IsCleavageSite(before, after byte) bool {
	if anyOf(before, e.AminoAcidBefore) && !anyOf(after, e.RestrictionAfter) {
		return true
	}
	if anyOf(after, e.AminoAcidAfter) && !anyOf(before, e.RestrictionBefore) {
		return true
	}
	return false
}

func (e Enzyme) String() string {
	var rules []string
	if e.AminoAcidBefore != "" {
		r := "after " + e.AminoAcidBefore
		if e.RestrictionAfter != "" {
			r += " unless before " + e.RestrictionAfter
		}
		rules = append(rules, r)
	}
	if e.AminoAcidAfter != "" {
		r := "before " + e.AminoAcidAfter
		if e.RestrictionBefore != "" {
			r += " unless after " + e.RestrictionBefore
		}
		rules = append(rules, r)
	}
	return e.Name + ": cleaves " + strings.Join(rules, ", ")
}

func (e Enzyme) validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("an enzyme must have a name")
	}
	if e.AminoAcidBefore == "" && e.AminoAcidAfter == "" {
		return errors.Errorf("enzyme '%s' has no cleavage site", e.Name)
	}
	return nil
}

var enzymeDB = []Enzyme{
	{Name: "Trypsin", AminoAcidBefore: "KR", RestrictionAfter: "P"},
	{Name: "Trypsin, no P rule", AminoAcidBefore: "KR"},
	{Name: "Arg-C", AminoAcidBefore: "R", RestrictionAfter: "P"},
	{Name: "Lys-C", AminoAcidBefore: "K", RestrictionAfter: "P"},
	{Name: "Lys-N", AminoAcidAfter: "K"},
	{Name: "Asp-N", AminoAcidAfter: "D"},
	{Name: "Glu-C", AminoAcidBefore: "E"},
	{Name: "Chymotrypsin", AminoAcidBefore: "FLWY", RestrictionAfter: "P"},
}

// Enzymes returns the built-in enzymes sorted by name.
func Enzymes() []Enzyme {
	enzymes := make([]Enzyme, len(enzymeDB))
	copy(enzymes, enzymeDB)
	sort.Slice(enzymes, func(i, j int) bool {
		return enzymes[i].Name < enzymes[j].Name
	})
	return enzymes
}

// FindEnzyme looks up an enzyme by name, ignoring case, in the built-in
// enzymes followed by any extra enzymes given.
func FindEnzyme(name string, extra ...Enzyme) (Enzyme, bool) {
	for _, enzymes := range [][]Enzyme{enzymeDB, extra} {
		for _, e := range enzymes {
			if strings.EqualFold(e.Name, name) {
				return e, true
			}
		}
	}
	return Enzyme{}, false
}

// ReadEnzymes decodes a YAML list of enzymes.
func ReadEnzymes(r io.Reader) ([]Enzyme, error) {
	var enzymes []Enzyme
	if err := yaml.NewDecoder(r).Decode(&enzymes); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "could not decode enzymes")
	}
	for i := range enzymes {
		e := &enzymes[i]
		e.AminoAcidBefore = strings.ToUpper(e.AminoAcidBefore)
		e.AminoAcidAfter = strings.ToUpper(e.AminoAcidAfter)
		e.RestrictionBefore = strings.ToUpper(e.RestrictionBefore)
		e.RestrictionAfter = strings.ToUpper(e.RestrictionAfter)
		if err := e.validate(); err != nil {
			return nil, err
		}
	}
	return enzymes, nil
}
