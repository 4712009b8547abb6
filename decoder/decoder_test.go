package decoder_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcvoid/json/decoder"
)

func drain(t *testing.T, d *decoder.Decoder) ([]rune, error) {
	t.Helper()
	var got []rune
	for {
		r, err := d.Next()
		if err != nil {
			return got, err
		}
		got = append(got, r)
	}
}

func TestNextReturnsScalarsInOrder(t *testing.T) {
	d := decoder.New(strings.NewReader("abc"), decoder.Utf8)
	got, err := drain(t, d)
	require.ErrorIs(t, err, decoder.ErrEndOfInput)
	assert.Equal(t, []rune("abc"), got)
}

func TestEndOfInputIsIdempotent(t *testing.T) {
	d := decoder.New(strings.NewReader("a"), decoder.Utf8)
	r, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 'a', r)

	_, err = d.Next()
	require.ErrorIs(t, err, decoder.ErrEndOfInput)
	_, err = d.Next()
	require.ErrorIs(t, err, decoder.ErrEndOfInput)
}

func TestUtf8MultibyteScalars(t *testing.T) {
	d := decoder.New(strings.NewReader("héllo"), decoder.Utf8)
	got, err := drain(t, d)
	require.ErrorIs(t, err, decoder.ErrEndOfInput)
	assert.Equal(t, []rune("héllo"), got)
}

func TestInvalidUtf8Detected(t *testing.T) {
	d := decoder.New(strings.NewReader("a\xffb"), decoder.Utf8)
	r, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, 'a', r)

	_, err = d.Next()
	assert.True(t, errors.Is(err, decoder.ErrNonUTF8))
}

func TestAsciiRejectsNonAscii(t *testing.T) {
	d := decoder.New(strings.NewReader("é"), decoder.Ascii)
	_, err := d.Next()
	assert.True(t, errors.Is(err, decoder.ErrNonUTF8))
}

func TestAsciiAcceptsPlainAscii(t *testing.T) {
	d := decoder.New(strings.NewReader("abc"), decoder.Ascii)
	got, err := drain(t, d)
	require.ErrorIs(t, err, decoder.ErrEndOfInput)
	assert.Equal(t, []rune("abc"), got)
}
