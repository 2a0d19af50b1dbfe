// Package catalog holds the fixed configuration tables the rule layer reads:
// mood levels, the reward catalog, the screening questionnaire and the
// screening interpretation bands.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// MoodLevel is one of the selectable moods, 1 (saddest) to 5 (happiest).
type MoodLevel struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
	Emoji string `yaml:"emoji" json:"emoji"`
	Color string `yaml:"color" json:"color"`
}

// Reward is a catalog item students redeem stars for.
type Reward struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Cost  int    `yaml:"cost" json:"cost"`
	Icon  string `yaml:"icon" json:"icon"`
	Color string `yaml:"color" json:"color"`
}

// Option is one answer choice of a screening question.
type Option struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Question is a screening questionnaire item.
type Question struct {
	ID      int      `yaml:"id" json:"id"`
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Options []Option `yaml:"options" json:"options"`
}

// HasOption reports whether value is one of the question's answer values.
func (q Question) HasOption(value int) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Band maps a range of screening scores to an interpretation. A band covers
// scores from Min up to the next band's Min minus one.
type Band struct {
	Key    string `yaml:"key" json:"key"`
	Min    int    `yaml:"min" json:"min"`
	Label  string `yaml:"label" json:"label"`
	Advice string `yaml:"advice" json:"advice"`
}

// Catalog bundles every table.
type Catalog struct {
	Moods     []MoodLevel `yaml:"moods" json:"moods"`
	Rewards   []Reward    `yaml:"rewards" json:"rewards"`
	Questions []Question  `yaml:"questions" json:"questions"`
	Bands     []Band      `yaml:"bands" json:"bands"`
}

// LoadFile reads a YAML catalog. Sections absent from the file keep their defaults.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog on top of the defaults and validates the result.
func Parse(data []byte) (*Catalog, error) {
	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := Default()
	if len(override.Moods) > 0 {
		c.Moods = override.Moods
	}
	if len(override.Rewards) > 0 {
		c.Rewards = override.Rewards
	}
	if len(override.Questions) > 0 {
		c.Questions = override.Questions
	}
	if len(override.Bands) > 0 {
		c.Bands = override.Bands
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) normalize() {
	sort.SliceStable(c.Bands, func(i, j int) bool { return c.Bands[i].Min < c.Bands[j].Min })
}

// Validate checks the invariants the rule layer depends on.
func (c *Catalog) Validate() error {
	if len(c.Moods) == 0 {
		return fmt.Errorf("catalog: at least one mood level required")
	}
	moods := make(map[int]struct{}, len(c.Moods))
	for _, m := range c.Moods {
		if _, dup := moods[m.Value]; dup {
			return fmt.Errorf("catalog: duplicate mood value %d", m.Value)
		}
		moods[m.Value] = struct{}{}
	}

	rewards := make(map[string]struct{}, len(c.Rewards))
	for _, r := range c.Rewards {
		if r.ID == "" {
			return fmt.Errorf("catalog: reward %q has no id", r.Name)
		}
		if _, dup := rewards[r.ID]; dup {
			return fmt.Errorf("catalog: duplicate reward id %s", r.ID)
		}
		if r.Cost <= 0 {
			return fmt.Errorf("catalog: reward %s cost must be positive", r.ID)
		}
		rewards[r.ID] = struct{}{}
	}

	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog: at least one screening question required")
	}
	questions := make(map[int]struct{}, len(c.Questions))
	for _, q := range c.Questions {
		if _, dup := questions[q.ID]; dup {
			return fmt.Errorf("catalog: duplicate question id %d", q.ID)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("catalog: question %d has no options", q.ID)
		}
		questions[q.ID] = struct{}{}
	}

	if len(c.Bands) == 0 {
		return fmt.Errorf("catalog: at least one screening band required")
	}
	for i := 1; i < len(c.Bands); i++ {
		if c.Bands[i].Min <= c.Bands[i-1].Min {
			return fmt.Errorf("catalog: band %s overlaps band %s", c.Bands[i].Key, c.Bands[i-1].Key)
		}
	}
	return nil
}

// Mood looks up a mood level by value.
func (c *Catalog) Mood(value int) (MoodLevel, bool) {
	for _, m := range c.Moods {
		if m.Value == value {
			return m, true
		}
	}
	return MoodLevel{}, false
}

// Reward looks up a reward by id.
func (c *Catalog) Reward(id string) (Reward, bool) {
	for _, r := range c.Rewards {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}

// Interpret returns the band containing score. Scores below the lowest
// floor fall into the lowest band.
func (c *Catalog) Interpret(score int) Band {
	band := c.Bands[0]
	for _, b := range c.Bands {
		if score < b.Min {
			break
		}
		band = b
	}
	return band
}
