package config

import (
	"fmt"
	"os"
	"path/filepath"

	"reroute/internal/util"
)

// Route is the resolved source and destination pair. It is built once at
// startup and never changes afterwards.
type Route struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// ResolveRoute fills in omitted paths: the source from the sourceEnv
// environment variable, the destination from the working directory. Both
// results are absolute.
func ResolveRoute(source, dest, sourceEnv string) (Route, error) {
	if source == "" {
		v, ok := os.LookupEnv(sourceEnv)
		if !ok || v == "" {
			return Route{}, fmt.Errorf("no source directory given and $%s is not set", sourceEnv)
		}
		source = v
	}

	if dest == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Route{}, fmt.Errorf("failed to get working dir: %w", err)
		}
		dest = wd
	}

	absSrc, err := filepath.Abs(source)
	if err != nil {
		return Route{}, fmt.Errorf("invalid source path: %w", err)
	}
	absDst, err := filepath.Abs(dest)
	if err != nil {
		return Route{}, fmt.Errorf("invalid destination path: %w", err)
	}

	return Route{Source: absSrc, Dest: absDst}, nil
}

func (r Route) Validate() error {
	if err := util.RequireDir(r.Source); err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}
	if err := util.RequireDir(r.Dest); err != nil {
		return fmt.Errorf("invalid destination: %w", err)
	}

	return nil
}
