package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexMatcher_Anchored(t *testing.T) {
	m, err := NewRegexMatcher(`aosp[0-9]+-i9505-.*\.zip`)
	require.NoError(t, err)

	tests := []struct {
		filename string
		want     bool
	}{
		{"aosp4-i9505-build.zip", true},
		{"aosp4-i9505-nightly.zip", true},
		{"aosp4-i9505-build.tar", false},
		{"aosp4-i9505-build.zip.bak", false},
		{"old-aosp4-i9505-build.zip", false},
		{"AOSP4-i9505-build.zip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(tt.filename))
		})
	}
}

func TestRegexMatcher_ExplicitAnchorsAreHarmless(t *testing.T) {
	m, err := NewRegexMatcher(`^gapps-kk-[0-9]{8}\.zip$`)
	require.NoError(t, err)

	assert.True(t, m.Matches("gapps-kk-20140615.zip"))
	assert.False(t, m.Matches("gapps-kk-2014061.zip"))
	assert.Equal(t, `^gapps-kk-[0-9]{8}\.zip$`, m.Pattern())
}

func TestOpenRegexMatcher(t *testing.T) {
	m, err := NewOpenRegexMatcher(`-jflte-`)
	require.NoError(t, err)

	assert.True(t, m.Matches("cm-11-20140101-jflte-nightly.zip"))
	assert.False(t, m.Matches("cm-11-20140101-hlte-nightly.zip"))
	assert.Contains(t, m.String(), "open")
}

func TestNewRegexMatcher_Invalid(t *testing.T) {
	_, err := NewRegexMatcher("")
	assert.ErrorIs(t, err, ErrEmptyPattern)

	_, err = NewRegexMatcher("   ")
	assert.ErrorIs(t, err, ErrEmptyPattern)

	_, err = NewRegexMatcher(`aosp[0-9`)
	assert.Error(t, err)
}

func TestExprMatcher(t *testing.T) {
	m, err := NewExprMatcher(`Ext == ".zip" && Stem startsWith "cm-11-"`)
	require.NoError(t, err)

	assert.True(t, m.Matches("cm-11-20140101-jflte.zip"))
	assert.False(t, m.Matches("cm-11-20140101-jflte.tar"))
	assert.False(t, m.Matches("cm-10.2-jflte.zip"))
	assert.False(t, m.Matches(""))
	assert.Equal(t, `expr:Ext == ".zip" && Stem startsWith "cm-11-"`, m.String())
}

func TestExprMatcher_RegexOperator(t *testing.T) {
	m, err := NewExprMatcher(`Filename matches "^BAM-Rom.*\\.zip$"`)
	require.NoError(t, err)

	assert.True(t, m.Matches("BAM-Rom-1.0.zip"))
	assert.False(t, m.Matches("bam-rom-1.0.zip"))
}

func TestNewExprMatcher_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"syntax error", `Filename ==`},
		{"not boolean", `Filename + "x"`},
		{"unknown field", `Device == "jflte"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExprMatcher(tt.source)
			assert.Error(t, err)
		})
	}
}

func TestFunc(t *testing.T) {
	m := Func{Name: "zip", Fn: func(name string) bool { return len(name) > 4 && name[len(name)-4:] == ".zip" }}

	assert.True(t, m.Matches("a.zip"))
	assert.False(t, m.Matches(""))
	assert.False(t, Func{}.Matches("a.zip"))
	assert.Equal(t, "func:zip", m.String())
}

func TestBasename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aosp4-i9505-build.zip", "aosp4-i9505-build.zip"},
		{"/sdcard/Download/aosp4-i9505-build.zip", "aosp4-i9505-build.zip"},
		{`C:\roms\aosp4-i9505-build.zip`, "aosp4-i9505-build.zip"},
		{"roms/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Basename(tt.in))
		})
	}
}
