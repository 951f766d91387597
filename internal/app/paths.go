package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
)

const (
	// ProfileContainer resolves paths inside the service image.
	ProfileContainer = "container"
	// ProfileLocal resolves paths relative to the working directory.
	ProfileLocal = "local"
)

const seedFileName = "seed.txt"

// Paths are the file locations handed to the key loader and the file-backed writers.
type Paths struct {
	PrivateKeyFile          string
	InstructorPublicKeyFile string
	SeedFile                string
	SnapshotFile            string
}

// DefaultProfile is container when USE_CONTAINER_PATH=1, local otherwise.
func DefaultProfile() string {
	if os.Getenv("USE_CONTAINER_PATH") == "1" {
		return ProfileContainer
	}
	return ProfileLocal
}

func profilePaths(profile string) Paths {
	if strings.EqualFold(strings.TrimSpace(profile), ProfileContainer) {
		return Paths{
			PrivateKeyFile:          "/app/student_private.pem",
			InstructorPublicKeyFile: "/app/instructor_public.pem",
			SeedFile:                filepath.Join("/data", seedFileName),
			SnapshotFile:            "/cron/last_code.txt",
		}
	}

	return Paths{
		PrivateKeyFile:          "student_private.pem",
		InstructorPublicKeyFile: "instructor_public.pem",
		SeedFile:                filepath.Join("data", seedFileName),
		SnapshotFile:            filepath.Join("cron", "last_code.txt"),
	}
}

// ResolvePaths applies paths.* overrides on top of the deploy.profile defaults.
func ResolvePaths(cfg config.Config) Paths {
	p := profilePaths(cfg.GetString("deploy.profile"))

	if v := strings.TrimSpace(cfg.GetString("paths.private_key")); v != "" {
		p.PrivateKeyFile = v
	}
	if v := strings.TrimSpace(cfg.GetString("paths.instructor_public_key")); v != "" {
		p.InstructorPublicKeyFile = v
	}
	if v := strings.TrimSpace(cfg.GetString("paths.data_dir")); v != "" {
		p.SeedFile = filepath.Join(v, seedFileName)
	}
	if v := strings.TrimSpace(cfg.GetString("paths.seed_file")); v != "" {
		p.SeedFile = v
	}
	if v := strings.TrimSpace(cfg.GetString("paths.snapshot_file")); v != "" {
		p.SnapshotFile = v
	}

	return p
}

// ConfigPath picks the config file: the flag value, then CONFIG_PATH, then the
// profile location.
func ConfigPath(flag string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("CONFIG_PATH")); v != "" {
		return v
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}
