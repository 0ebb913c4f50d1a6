package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/fsutil"
)

// DefaultConfigYAML is the commented configuration written by `lndconf init`.
const DefaultConfigYAML = `# lndconf configuration
#
# Values not specified here use built-in defaults. Environment variables
# prefixed with LNDCONF_ override this file (e.g. LNDCONF_LOG_LEVEL=debug).

log:
  level: info      # debug | info | warn | error
  format: auto     # auto | text | json

# Schema document describing every LND setting. Empty uses the embedded one.
schema:
  path: ""

# Presets are partial settings trees merged over the schema defaults.
presets:
  builtin: true
  # Directory with extra .yaml, .yml, .json or .toml preset files.
  dir: ""
  # Reload dir on change while serving. New sessions see the new presets.
  watch: false

editor:
  # Application name used to derive the base directory ($BASE).
  app: lnd
  # Target platform for generated paths: Linux | Mac OS | Windows.
  # Empty detects the running host.
  platform: ""
  # Fields rendered with a specialized control.
  multiselect:
    - autopilot.heuristic
  decimals:
    - app.maxfeeallocation
    - autopilot.allocation
  paths:
    - app.lnddir
    - app.datadir
    - app.logdir
    - app.tlscertpath
    - app.tlskeypath
    - btcd.dir
    - btcd.rpccert
    - bitcoind.dir
  lists:
    - app.listen
    - app.externalip
    - neutrino.connect
    - neutrino.addpeer

server:
  host: localhost
  port: 8735
  enable_cors: true
  cors_origins:
    - http://localhost:5173
  max_sessions: 64
  read_timeout: 15s
  write_timeout: 30s
  idle_timeout: 60s
  shutdown_timeout: 10s
`

// ErrConfigExists is returned by WriteDefault when the file is present and
// overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// DefaultPath returns the project config path under dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, DirName, "config.yaml")
}

// WriteDefault writes DefaultConfigYAML to path atomically, creating parent
// directories. An existing file is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking config: %w", err)
		}
	}

	if err := fsutil.WriteFileAtomic(path, []byte(DefaultConfigYAML), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
