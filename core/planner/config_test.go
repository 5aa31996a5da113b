package planner

import "testing"

func TestConfigSetDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.SampleStepMinutes != 15 || c.SlewBufferMinutes != 5 {
		t.Fatalf("grid defaults wrong: %+v", c)
	}
	if c.RelaxedScoreFloor != 0.5 || c.FitBonus != 0.1 || c.DiversityBonus != 0.05 {
		t.Fatalf("fill defaults wrong: %+v", c)
	}
	if c.MaxGaps != 20 || c.Workers != 4 {
		t.Fatalf("limit defaults wrong: %+v", c)
	}

	// Explicit values survive.
	c = Config{SampleStepMinutes: 10, Workers: 2}
	c.SetDefaults()
	if c.SampleStepMinutes != 10 || c.Workers != 2 {
		t.Fatalf("explicit values overwritten: %+v", c)
	}
}

func TestConfigValidate(t *testing.T) {
	good := Config{}
	good.SetDefaults()
	if err := good.Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	cases := map[string]Config{
		"zero step":        {SlewBufferMinutes: 5, RelaxedScoreFloor: 0.5},
		"negative buffer":  {SampleStepMinutes: 15, SlewBufferMinutes: -1, RelaxedScoreFloor: 0.5},
		"floor above one":  {SampleStepMinutes: 15, RelaxedScoreFloor: 1.5},
		"negative workers": {SampleStepMinutes: 15, RelaxedScoreFloor: 0.5, Workers: -1},
	}
	for name, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: invalid config accepted", name)
		}
	}
}
