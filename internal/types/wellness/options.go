package wellness

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOutOfRange    = errors.New("wellness: value out of range")
	ErrUnknownOption = errors.New("wellness: unknown option")
)

// Option is one entry of a fixed select list. Label is the canonical value;
// Hint is the longer wording shown next to it and is accepted on input too.
type Option struct {
	Label string `json:"label"`
	Hint  string `json:"hint"`
}

const (
	LifestyleSedentary        = "Sedentary"
	LifestyleLightlyActive    = "Lightly Active"
	LifestyleModeratelyActive = "Moderately Active"
	LifestyleVeryActive       = "Very Active"

	DietBalanced    = "Balanced"
	DietHighSugar   = "High Sugar"
	DietHighProtein = "High Protein"
	DietVegetarian  = "Vegetarian"
	DietIrregular   = "Irregular"
)

var lifestyleOptions = []Option{
	{Label: LifestyleSedentary, Hint: "Sedentary (Office job, little exercise)"},
	{Label: LifestyleLightlyActive, Hint: "Lightly Active (Walking, light chores)"},
	{Label: LifestyleModeratelyActive, Hint: "Moderately Active (Exercise 3-5x/week)"},
	{Label: LifestyleVeryActive, Hint: "Very Active (Daily heavy exercise)"},
}

var dietOptions = []Option{
	{Label: DietBalanced, Hint: "Balanced / Healthy"},
	{Label: DietHighSugar, Hint: "High Sugar / Processed"},
	{Label: DietHighProtein, Hint: "High Protein / Low Carb"},
	{Label: DietVegetarian, Hint: "Vegetarian / Vegan"},
	{Label: DietIrregular, Hint: "Irregular Eating Patterns"},
}

func LifestyleOptions() []Option { return append([]Option(nil), lifestyleOptions...) }

func DietOptions() []Option { return append([]Option(nil), dietOptions...) }

// ParseLifestyle maps a label or hint (case-insensitive) to its label.
func ParseLifestyle(s string) (string, error) {
	return matchOption("lifestyle", lifestyleOptions, s)
}

// ParseDiet maps a label or hint (case-insensitive) to its label.
func ParseDiet(s string) (string, error) {
	return matchOption("diet", dietOptions, s)
}

func matchOption(kind string, opts []Option, s string) (string, error) {
	v := strings.TrimSpace(s)
	for _, o := range opts {
		if strings.EqualFold(v, o.Label) || strings.EqualFold(v, o.Hint) {
			return o.Label, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q", ErrUnknownOption, kind, s)
}

// Validate reports whether lifestyle and diet name known options. Hints and
// any letter case are accepted; Normalize maps them to the labels.
func (c UserContext) Validate() error {
	if _, err := ParseLifestyle(c.Lifestyle); err != nil {
		return err
	}
	if _, err := ParseDiet(c.Diet); err != nil {
		return err
	}
	return nil
}

// Normalize rewrites lifestyle and diet to their canonical labels.
func (c UserContext) Normalize() (UserContext, error) {
	l, err := ParseLifestyle(c.Lifestyle)
	if err != nil {
		return c, err
	}
	d, err := ParseDiet(c.Diet)
	if err != nil {
		return c, err
	}
	c.Lifestyle = l
	c.Diet = d
	return c, nil
}
