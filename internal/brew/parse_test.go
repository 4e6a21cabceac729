package brew

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoFixture = `{
  "formulae": [
    {
      "name": "jq",
      "desc": "Lightweight and flexible command-line JSON processor",
      "homepage": "https://jqlang.github.io/jq/",
      "versions": {"stable": "1.7.1"},
      "installed": [{"version": "1.7.1", "installed_on_request": true}],
      "pinned": true,
      "outdated": false
    },
    {
      "name": "oniguruma",
      "desc": "Regular expressions library",
      "homepage": "https://github.com/kkos/oniguruma",
      "versions": {"stable": "6.9.9"},
      "installed": [{"version": "6.9.9", "installed_on_request": false}],
      "pinned": false,
      "outdated": true
    },
    {
      "name": "uninstalled-tap-entry",
      "desc": "Not actually present",
      "versions": {"stable": "0.1"},
      "installed": []
    }
  ],
  "casks": [
    {
      "token": "firefox",
      "desc": "Web browser",
      "homepage": "https://www.mozilla.org/firefox/",
      "version": "130.0",
      "installed": "129.0",
      "outdated": true
    }
  ]
}`

func TestParseInfoInstalledOnly(t *testing.T) {
	pkgs, err := parseInfo(infoFixture, true)
	require.NoError(t, err)
	require.Len(t, pkgs, 3, "bare tap entry must be dropped")

	jq := pkgs[0]
	assert.Equal(t, "jq", jq.Name)
	assert.Equal(t, "1.7.1", jq.Version)
	assert.True(t, jq.Pinned)
	assert.True(t, jq.InstalledOnRequest)
	assert.False(t, jq.Cask)

	assert.False(t, pkgs[1].InstalledOnRequest)
	assert.True(t, pkgs[1].Outdated)

	fx := pkgs[2]
	assert.True(t, fx.Cask)
	assert.Equal(t, "firefox", fx.Name)
	assert.Equal(t, "129.0", fx.Version)
	assert.Equal(t, "130.0", fx.Current)
	assert.True(t, fx.Outdated)
}

func TestParseInfoKeepsUninstalledWhenAsked(t *testing.T) {
	pkgs, err := parseInfo(infoFixture, false)
	require.NoError(t, err)
	require.Len(t, pkgs, 4)
	assert.Equal(t, "uninstalled-tap-entry", pkgs[2].Name)
	assert.Empty(t, pkgs[2].Version)
	assert.Equal(t, "0.1", pkgs[2].Current)
}

const outdatedFixture = `{
  "formulae": [
    {
      "name": "git",
      "installed_versions": ["2.45.0"],
      "current_version": "2.46.1",
      "pinned": false
    },
    {
      "name": "node",
      "installed_versions": ["20.1.0", "21.0.0"],
      "current_version": "22.4.0",
      "pinned": true
    }
  ],
  "casks": [
    {
      "name": "alacritty",
      "installed_versions": ["0.13.1"],
      "current_version": "0.13.2"
    }
  ]
}`

func TestParseOutdated(t *testing.T) {
	pkgs, err := parseOutdated(outdatedFixture)
	require.NoError(t, err)
	require.Len(t, pkgs, 3)

	assert.Equal(t, "git", pkgs[0].Name)
	assert.Equal(t, "2.45.0", pkgs[0].Version)
	assert.Equal(t, "2.46.1", pkgs[0].Current)
	assert.True(t, pkgs[0].Outdated)

	assert.Equal(t, "20.1.0, 21.0.0", pkgs[1].Version)
	assert.True(t, pkgs[1].Pinned)

	assert.True(t, pkgs[2].Cask)
	assert.Equal(t, "alacritty", pkgs[2].Name)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := parseInfo("{broken", true)
	var brewErr *Error
	require.ErrorAs(t, err, &brewErr)
	assert.Equal(t, "info", brewErr.Op)

	_, err = parseOutdated("[]")
	require.Error(t, err, "outdated payload is an object, not an array")
}
