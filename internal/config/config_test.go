package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/tyto/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
tyto:
  link:
    pcap:
      path: /tmp/capture.pcap
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2048, cfg.Queue.Capacity)
	assert.Equal(t, core.DefaultMinFrameBytes, cfg.Validator.MinFrameBytes)
	assert.Equal(t, core.DefaultMaxFrameBytes, cfg.Validator.MaxFrameBytes)
	assert.Equal(t, "drop", cfg.Validator.UntaggedPolicy)
	assert.False(t, cfg.Validator.VLANAware)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/tmp/capture.pcap", cfg.Link.Pcap.Path)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
tyto:
  queue:
    capacity: 128
  validator:
    vlan_aware: true
    allowed_vlan_ids: [10, 20, 30]
    untagged_policy: accept
    default_vlan_id: 10
    min_frame_bytes: 64
    max_frame_bytes: 9018
  log:
    level: debug
    format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.Queue.Capacity)
	assert.True(t, cfg.Validator.VLANAware)
	assert.Equal(t, []uint16{10, 20, 30}, cfg.Validator.AllowedVLANIDs)
	assert.Equal(t, 9018, cfg.Validator.MaxFrameBytes)
}

func TestInvertedSizeWindowIsFatal(t *testing.T) {
	path := writeConfig(t, `
tyto:
  validator:
    min_frame_bytes: 1519
    max_frame_bytes: 1518
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrSizeBounds)
}

func TestBadUntaggedPolicyRejected(t *testing.T) {
	path := writeConfig(t, `
tyto:
  validator:
    untagged_policy: tag-and-forward
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestOversizedVLANIDRejected(t *testing.T) {
	path := writeConfig(t, `
tyto:
  validator:
    vlan_aware: true
    allowed_vlan_ids: [5000]
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestNonPositiveQueueCapacityRejected(t *testing.T) {
	path := writeConfig(t, `
tyto:
  queue:
    capacity: -4
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestMembershipSetLookup(t *testing.T) {
	vc := ValidatorConfig{AllowedVLANIDs: []uint16{10, 20}}
	member := vc.Membership()

	assert.True(t, member(10))
	assert.True(t, member(20))
	assert.False(t, member(30))
	assert.False(t, member(0))
}

func TestValidatorSettingsResolution(t *testing.T) {
	vc := ValidatorConfig{
		VLANAware:      true,
		AllowedVLANIDs: []uint16{10},
		UntaggedPolicy: "accept",
		DefaultVLANID:  10,
		MinFrameBytes:  64,
		MaxFrameBytes:  1518,
	}
	settings := vc.ValidatorSettings()

	assert.True(t, settings.VLANAware)
	assert.True(t, settings.AcceptUntagged)
	assert.Equal(t, uint16(10), settings.DefaultVLANID)
	assert.True(t, settings.Member(10))
	assert.False(t, settings.Member(11))
}

func TestMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
