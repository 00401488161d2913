package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

func TestDecodeTextUTF8(t *testing.T) {
	s, err := DecodeText([]byte("Τη γλώσσα μου"), "")
	require.NoError(t, err)
	assert.Equal(t, "Τη γλώσσα μου", s)
}

func TestDecodeTextCharset(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("café crème"))
	require.NoError(t, err)

	s, err := DecodeText(latin, "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "café crème", s)

	_, err = DecodeText(latin, "x-no-such-charset")
	assert.ErrorIs(t, err, ErrUnknownCharset)
}

func TestDecodeTextDetect(t *testing.T) {
	text := strings.Repeat("日本語のテキストです。メールの本文をここに書きます。", 20)
	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	s, err := DecodeText(sjis, "")
	require.NoError(t, err)
	assert.Equal(t, text, s)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "page.mht")
	require.NoError(t, os.WriteFile(p, []byte("MIME-Version: 1.0\r\nContent-Type: text/plain\r\n\r\nhello"), 0o644))

	s, err := Load(p)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(s, "hello"))

	_, err = Load(filepath.Join(dir, "missing.mht"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
