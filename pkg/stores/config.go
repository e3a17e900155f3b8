package stores

import (
	"os"

	"github.com/spf13/viper"
)

// envConfigLocation overrides the config file search with an explicit path
const envConfigLocation = "OBPROJECT_CONFIG"

// LoadLocations reads the store backend settings from the obproject
// configuration file, resolved from OBPROJECT_CONFIG or the standard
// search paths. A missing config file yields zero Locations, which
// Build defaults to localfs.
//
// Flow binaries use this to target the same stores as the obproject CLI.
func LoadLocations() Locations {
	v := viper.New()
	if location := os.Getenv(envConfigLocation); location != "" {
		v.SetConfigFile(location)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.obproject")
		v.AddConfigPath("/etc/obproject")
		v.SetConfigName("obproject")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("obproject")
	v.AutomaticEnv()

	var locations Locations
	if err := v.ReadInConfig(); err == nil {
		_ = v.Unmarshal(&locations)
	}
	if locations.Credential != "" {
		_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", locations.Credential)
	}
	return locations
}
