package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	got, err := GetSimpleText(rdr("lastline"), "Name?", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", io.Discard)
	require.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	got, err := GetMultiline(rdr("a\nb\n\nrest\n"), "Enter text", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	got, err := GetPassword(io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(io.Discard)
	require.Error(t, err)
}

func TestGetPairs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][2]string
	}{
		{"stop on empty line", "Filtro=2\nGás R410A = 1 kg\n\n", [][2]string{{"Filtro", "2"}, {"Gás R410A", "1 kg"}}},
		{"CRLF", "a=1\r\n\r\n", [][2]string{{"a", "1"}}},
		{"no value", "Capacitor\n\n", [][2]string{{"Capacitor", ""}}},
		{"immediate blank line", "\n", [][2]string{}},
		{"EOF without blank line", "a=1", [][2]string{{"a", "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetPairs(rdr(tt.input), "Parts", io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetChoice(t *testing.T) {
	opts := []string{"Baixa", "Media", "Alta"}

	got, err := GetChoice(rdr("3\n"), "Priority", opts, "Baixa", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "Alta", got)

	got, err = GetChoice(rdr("\n"), "Priority", opts, "Baixa", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "Baixa", got)

	got, err = GetChoice(rdr("media\n"), "Priority", opts, "", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "Media", got)

	var out bytes.Buffer
	got, err = GetChoice(rdr("9\nx\n2\n"), "Priority", opts, "", &out)
	require.NoError(t, err)
	assert.Equal(t, "Media", got)
	assert.Equal(t, 2, strings.Count(out.String(), "Please choose"))
}

func TestConfirm(t *testing.T) {
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false} {
		got, err := Confirm(rdr(in), "Delete?", io.Discard)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", in)
	}
}
