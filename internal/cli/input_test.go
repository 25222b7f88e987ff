package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var w bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("  ann@example.com \n")), "Enter email", &w)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got)
	assert.Equal(t, "Enter email\n> ", w.String())

	got, err = GetSimpleText(bufio.NewReader(strings.NewReader("no newline")), "p", &w)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "p", &w)
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }
	var w bytes.Buffer
	pw, err := GetPassword("Enter password", &w)
	require.NoError(t, err)
	assert.Equal(t, "secret1", pw)
	assert.Equal(t, "Enter password: \n", w.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	_, err = GetPassword("Enter password", &w)
	assert.EqualError(t, err, "not a terminal")
}
