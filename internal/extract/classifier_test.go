package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Current(t *testing.T) {
	docType, err := Classify("Current details for ABN 51 824 753 556\nEntity name: ACME PTY LTD")

	require.NoError(t, err)
	assert.Equal(t, DocumentTypeCurrent, docType)
}

func TestClassify_Historical(t *testing.T) {
	docType, err := Classify("some preamble\nHistorical details for ABN 51 824 753 556")

	require.NoError(t, err)
	assert.Equal(t, DocumentTypeHistorical, docType)
}

func TestClassify_MarkerPositionIrrelevant(t *testing.T) {
	// The marker does not have to open the document.
	docType, err := Classify("Page 1 of 2\n\nABR extract\nCurrent details for ABN 11 222 333 444")

	require.NoError(t, err)
	assert.Equal(t, DocumentTypeCurrent, docType)
}

func TestClassify_Unrecognized(t *testing.T) {
	_, err := Classify("completely unrelated text")

	assert.ErrorIs(t, err, ErrUnrecognizedDocument)
}

func TestClassify_Empty(t *testing.T) {
	_, err := Classify("")

	assert.ErrorIs(t, err, ErrUnrecognizedDocument)
}
