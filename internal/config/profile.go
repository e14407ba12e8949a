package config

// DefaultProfile is the dataset profile used when none is configured
const DefaultProfile = "regression"

// ProfileConfig names the active test-data profile. Scenario results are
// tagged with it so runs against different datasets stay distinguishable.
// It is an explicit value passed down from the entry point, not ambient
// global state.
type ProfileConfig struct {
	Name string
}

// LoadProfileConfig loads the active profile from environment variables
func LoadProfileConfig(getenv func(string) string) ProfileConfig {
	name := getenv("TEST_PROFILE")
	if name == "" {
		name = DefaultProfile
	}

	return ProfileConfig{
		Name: name,
	}
}
