package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ceka/errors"
)

func TestInfoString(t *testing.T) {
	dev := Info{Version: "dev", CommitHash: "abc", BuildTime: "now"}
	assert.Equal(t, "ceka dev (commit abc, built now)", dev.String())

	tagged := Info{Version: "1.2.0", CommitHash: "0123456789", BuildTime: "now"}
	assert.Equal(t, "ceka 1.2.0 (commit 0123456789, built now)", tagged.String())
	assert.Equal(t, "0123456", tagged.Short())
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		constraint string
		wantErr    bool
	}{
		{name: "no constraint", version: "1.0.0", constraint: ""},
		{name: "dev build skips check", version: "dev", constraint: ">= 9.0.0"},
		{name: "satisfied", version: "1.4.2", constraint: ">= 1.2, < 2"},
		{name: "too old", version: "1.1.0", constraint: ">= 1.2", wantErr: true},
		{name: "bad constraint", version: "1.1.0", constraint: "not-a-constraint", wantErr: true},
		{name: "bad version", version: "one", constraint: ">= 1.0", wantErr: true},
		{name: "v prefix", version: "v1.3.0", constraint: "~1.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Satisfies(tt.version, tt.constraint)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSatisfies_Unmet(t *testing.T) {
	err := Satisfies("1.1.0", ">= 1.2")
	require.Error(t, err)
	assert.Equal(t, "project requires ceka >= 1.2, this is ceka 1.1.0", err.Error())
	assert.NotEmpty(t, errors.GetAllDetails(err))
	assert.Contains(t, errors.FlattenHints(err), "ceka.requires")
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, info.Platform, "/")
	assert.NotEmpty(t, info.GoVersion)
}
