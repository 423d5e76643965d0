package domain

import (
	"fmt"
	"strings"
)

type Belt string

const (
	BeltWhite  Belt = "White"
	BeltBlue   Belt = "Blue"
	BeltPurple Belt = "Purple"
	BeltBrown  Belt = "Brown"
	BeltBlack  Belt = "Black"
)

const MaxStripes = 4

var beltAliases = map[string]Belt{
	"white":  BeltWhite,
	"branca": BeltWhite,
	"blue":   BeltBlue,
	"azul":   BeltBlue,
	"purple": BeltPurple,
	"roxa":   BeltPurple,
	"brown":  BeltBrown,
	"marrom": BeltBrown,
	"black":  BeltBlack,
	"preta":  BeltBlack,
}

func ParseBelt(raw string) (Belt, error) {
	if b, ok := beltAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return b, nil
	}
	return "", fmt.Errorf("unsupported belt %q", raw)
}

// Profile describes the practitioner who owns the journal.
type Profile struct {
	Name    string
	Belt    Belt
	Stripes int
	Academy string
}

// NewProfile normalizes configured values; an unknown belt falls back to
// white and stripes are clamped to 0..4.
func NewProfile(name, belt string, stripes int, academy string) Profile {
	b, err := ParseBelt(belt)
	if err != nil {
		b = BeltWhite
	}
	if stripes < 0 {
		stripes = 0
	}
	if stripes > MaxStripes {
		stripes = MaxStripes
	}
	return Profile{
		Name:    strings.TrimSpace(name),
		Belt:    b,
		Stripes: stripes,
		Academy: strings.TrimSpace(academy),
	}
}

// Label renders e.g. "Ana · Blue belt, 2 stripes · Alliance".
func (p Profile) Label() string {
	parts := make([]string, 0, 3)
	if p.Name != "" {
		parts = append(parts, p.Name)
	}
	rank := string(p.Belt) + " belt"
	switch p.Stripes {
	case 0:
	case 1:
		rank += ", 1 stripe"
	default:
		rank += fmt.Sprintf(", %d stripes", p.Stripes)
	}
	parts = append(parts, rank)
	if p.Academy != "" {
		parts = append(parts, p.Academy)
	}
	return strings.Join(parts, " · ")
}
