package config

import "os"

var (
	lookupEnv = os.LookupEnv
	setEnv    = os.Setenv
)
