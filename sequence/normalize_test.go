package sequence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/plaszyme/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Sequence
		wantErr error
	}{
		{name: "plain uppercase", raw: "MKTAYIAKQRQISFVKSHFSRQ", want: "MKTAYIAKQRQISFVKSHFSRQ"},
		{name: "lowercase", raw: "mktayiakqr", want: "MKTAYIAKQR"},
		{name: "internal whitespace", raw: "MKT AYI\tAKQR", want: "MKTAYIAKQR"},
		{name: "wildcard", raw: "MKTXXXAKQR", want: "MKTXXXAKQR"},
		{name: "fasta header", raw: ">sp|P12345| test protein\nMKTAYIAK\nQRQISFVK\n", want: "MKTAYIAKQRQISFVK"},
		{name: "crlf and blank lines", raw: ">x\r\n\r\nMKTAYIAKQR\r\nQR\r\n", want: "MKTAYIAKQRQR"},
		{name: "indented header", raw: "   >hdr\nMKTAYIAKQR", want: "MKTAYIAKQR"},
		{name: "empty", raw: "", wantErr: ErrEmptyInput},
		{name: "whitespace only", raw: " \n\t ", wantErr: ErrEmptyInput},
		{name: "too short", raw: "ACD", wantErr: ErrTooShort},
		{name: "header only", raw: ">just a header", wantErr: ErrTooShort},
		{name: "nine residues", raw: "ACDEFGHIK", wantErr: ErrTooShort},
		{name: "digits", raw: "ACDEFGHIK1", wantErr: ErrInvalidFormat},
		{name: "non-amino letters", raw: "ACDEFGHIKBJOUZ", wantErr: ErrInvalidFormat},
		{name: "non-ASCII letters that uppercase into the alphabet", raw: "ııııııııııſſſſ", wantErr: ErrInvalidFormat},
		{name: "accented residue", raw: "MKTAYÍAKQR", wantErr: ErrInvalidFormat},
		{name: "gap symbol", raw: "ACDEF-GHIKL", wantErr: ErrInvalidFormat},
		{name: "short and invalid reports length", raw: "AC1", wantErr: ErrTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeHints(t *testing.T) {
	_, err := Normalize("ACD")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "at least 10")

	_, err = Normalize("ACDEFGHIK1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 10")
}

// Prepending any header line must not change the normalized sequence.
func TestNormalizeIgnoresHeader(t *testing.T) {
	body := "MSKGEELFTGVVPILVELDGDVNGHKFSVSGEGEGDATYGKLTLKFICTT"
	headers := []string{">", ">sp|P42212|GFP_AEQVI", "> with spaces and 123 digits", ">ÄÖÜ non-ascii"}

	want, err := Normalize(body)
	require.NoError(t, err)

	for _, h := range headers {
		got, err := Normalize(h + "\n" + body)
		require.NoError(t, err, h)
		assert.Equal(t, want, got, h)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first, err := Normalize("> hdr\nmsk gee lft gvv pil vel\n")
	require.NoError(t, err)

	second, err := Normalize(first.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, len(first), first.Len())
}

func TestClean(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "AC1", Clean(" a c 1 "))
	assert.Equal(t, "ABC", Clean(">h1\nab\n>h2\nc"))
}

func TestAlphabet(t *testing.T) {
	for i := 0; i < len(Standard); i++ {
		assert.True(t, IsStandard(Standard[i]))
		assert.True(t, IsResidue(Standard[i]))
	}
	assert.False(t, IsStandard('X'))
	assert.True(t, IsResidue('X'))
	for _, b := range []byte("BJOUZ*-1a ") {
		assert.False(t, IsResidue(b), string(b))
	}
	assert.Len(t, strings.Split(Standard, ""), 20)
}

func TestNormalizeReportsNonASCIIRune(t *testing.T) {
	_, err := Normalize("MKTAYIAKQRſ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `'ſ' at position 11`)
}
