package app

import (
	"path/filepath"
	"testing"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want Paths
	}{
		{
			name: "container profile",
			yaml: "deploy:\n  profile: container\n",
			want: Paths{
				PrivateKeyFile:          "/app/student_private.pem",
				InstructorPublicKeyFile: "/app/instructor_public.pem",
				SeedFile:                "/data/seed.txt",
				SnapshotFile:            "/cron/last_code.txt",
			},
		},
		{
			name: "local profile",
			yaml: "deploy:\n  profile: local\n",
			want: Paths{
				PrivateKeyFile:          "student_private.pem",
				InstructorPublicKeyFile: "instructor_public.pem",
				SeedFile:                filepath.Join("data", "seed.txt"),
				SnapshotFile:            filepath.Join("cron", "last_code.txt"),
			},
		},
		{
			name: "explicit overrides",
			yaml: "deploy:\n  profile: container\npaths:\n  private_key: /keys/k.pem\n  data_dir: /srv/seed\n  snapshot_file: /tmp/snap.txt\n",
			want: Paths{
				PrivateKeyFile:          "/keys/k.pem",
				InstructorPublicKeyFile: "/app/instructor_public.pem",
				SeedFile:                "/srv/seed/seed.txt",
				SnapshotFile:            "/tmp/snap.txt",
			},
		},
		{
			name: "seed file beats data dir",
			yaml: "deploy:\n  profile: local\npaths:\n  data_dir: /srv\n  seed_file: /x/seed\n",
			want: Paths{
				PrivateKeyFile:          "student_private.pem",
				InstructorPublicKeyFile: "instructor_public.pem",
				SeedFile:                "/x/seed",
				SnapshotFile:            filepath.Join("cron", "last_code.txt"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.NewViperFromBytes("yaml", []byte(tt.yaml), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ResolvePaths(cfg))
		})
	}
}

func TestDefaultProfile(t *testing.T) {
	t.Setenv("USE_CONTAINER_PATH", "1")
	assert.Equal(t, ProfileContainer, DefaultProfile())

	cfg, err := config.NewViperFromBytes("yaml", nil, Defaults())
	require.NoError(t, err)
	assert.Equal(t, "/data/seed.txt", ResolvePaths(cfg).SeedFile)

	t.Setenv("USE_CONTAINER_PATH", "0")
	assert.Equal(t, ProfileLocal, DefaultProfile())
}

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LOCAL", "")
	assert.Equal(t, "/config/config.yaml", ConfigPath(""))

	t.Setenv("LOCAL", "true")
	assert.Equal(t, "./config/config.yaml", ConfigPath(""))

	t.Setenv("CONFIG_PATH", "/etc/seedkeeper.yaml")
	assert.Equal(t, "/etc/seedkeeper.yaml", ConfigPath(""))
	assert.Equal(t, "flag.yaml", ConfigPath(" flag.yaml "))
}

func TestDefaults_EnvOverride(t *testing.T) {
	t.Setenv("SEEDKEEPER_SEED_DRIVER", "redis")

	cfg, err := config.NewViperFromBytes("yaml", nil, Defaults())
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.GetString("seed.driver"))
	assert.Equal(t, uint(30), cfg.GetUint("totp.period"))
	assert.Equal(t, uint(1), cfg.GetUint("totp.skew"))
}
