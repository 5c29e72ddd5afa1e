package config

const (
	defaultStateDir         = "~/.local/share/weathertag"
	defaultLogDir           = "~/.local/share/weathertag/logs"
	defaultThresholdMinutes = 30
	defaultExiftoolBinary   = "exiftool"
	defaultExiftoolTimeout  = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultHistoryFile      = "history.db"
)

var defaultPhotoExtensions = []string{
	".jpg", ".jpeg", ".tif", ".tiff", ".heic", ".dng",
	".cr2", ".cr3", ".nef", ".arw", ".orf", ".rw2",
}

// Default returns a Config populated with repository defaults. Writing to
// photos is off so a fresh install only previews.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Matching: Matching{
			ThresholdMinutes: defaultThresholdMinutes,
			Write:            false,
		},
		Photos: Photos{
			Extensions: append([]string(nil), defaultPhotoExtensions...),
		},
		Exiftool: Exiftool{
			Binary:         defaultExiftoolBinary,
			TimeoutSeconds: defaultExiftoolTimeout,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
