package ideconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/esoide/cmds"
	"github.com/reusee/esoide/configs"
	"github.com/reusee/esoide/logs"
)

//go:embed schema.cue
var Schema string

var extraConfigPaths = cmds.Collect[string]("-config")

var filenames = []string{
	"esoide.cue",
	".esoide.cue",
}

// ConfigPaths returns existing config files, most specific first.
func ConfigPaths() (paths []string) {
	// explicit
	paths = append(paths, *extraConfigPaths...)

	// working directory
	if workingDir, err := os.Getwd(); err == nil {
		paths = append(paths, existing(workingDir)...)
	}

	// user config dir
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, existing(configDir)...)
	}

	// system wide dir
	paths = append(paths, existing("/etc")...)

	return
}

func existing(dir string) (ret []string) {
	for _, filename := range filenames {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			ret = append(ret, path)
		}
	}
	return
}

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {
	paths := ConfigPaths()
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return configs.NewLoader(paths, Schema)
}
