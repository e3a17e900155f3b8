package model

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAsset() AssetDescriptor {
	return AssetDescriptor{
		ID:          testVersionID,
		Name:        "sample_data",
		Kind:        KindData,
		Branch:      "user_alice",
		Digest:      testDigest(),
		Size:        11,
		ContentType: "application/json",
		Annotations: map[string]string{
			"row_count": "5",
			"source":    "producer_flow",
		},
		Timestamp: GetRunTimeStamp(),
		Workflow: WorkflowRef{
			Flow:  "ProducerFlow",
			RunID: testRunID,
			Step:  "start",
		},
		Contributor: Contributor{Name: "alice", Email: "alice@example.com"},
	}
}

func TestAssetRoundTrip(t *testing.T) {
	asset := testAsset()
	b, err := MarshalAsset(&asset)
	require.NoError(t, err)

	back, err := UnmarshalAsset(b)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, back.ID)
	assert.Equal(t, asset.Kind, back.Kind)
	assert.Equal(t, asset.Digest, back.Digest)
	assert.Equal(t, asset.Annotations, back.Annotations)
	assert.Equal(t, asset.Workflow, back.Workflow)

	_, err = UnmarshalAsset(nil)
	require.Error(t, err)
}

func TestValidateAsset(t *testing.T) {
	require.NoError(t, ValidateAsset(testAsset()))

	missingName := testAsset()
	missingName.Name = ""
	require.Error(t, ValidateAsset(missingName))

	badName := testAsset()
	badName.Name = "sample/data"
	require.Error(t, ValidateAsset(badName))

	badKind := testAsset()
	badKind.Kind = Kind("dataset")
	require.Error(t, ValidateAsset(badKind))

	missingID := testAsset()
	missingID.ID = ""
	require.Error(t, ValidateAsset(missingID))

	badDigest := testAsset()
	badDigest.Digest = "zork"
	require.Error(t, ValidateAsset(badDigest))
}

func TestWorkflowPathspec(t *testing.T) {
	ref := WorkflowRef{Flow: "ProducerFlow", RunID: testRunID, Step: "start"}
	assert.Equal(t, "ProducerFlow/"+testRunID+"/start", ref.Pathspec())
	assert.Empty(t, WorkflowRef{}.Pathspec())
}

func TestAssetDescriptorsSort(t *testing.T) {
	assets := AssetDescriptors{
		{Name: "sample_model", Kind: KindModel},
		{Name: "sample_data", Kind: KindData},
		{Name: "extra_data", Kind: KindData},
	}
	sort.Sort(assets)
	require.True(t, sort.IsSorted(assets))
	assert.Equal(t, "extra_data", assets[0].Name)
	assert.Equal(t, "sample_model", assets.Last().Name)
}

func TestDigest(t *testing.T) {
	payload := []byte("sixteentons")
	d := NewDigest(payload)
	assert.Len(t, d.String(), 2*DigestSize)

	streamed, n, err := DigestReader(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, d, streamed)

	parsed, err := ParseDigest(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	_, err = ParseDigest("zork")
	require.Error(t, err)

	_, err = ParseDigest("abcd")
	require.Error(t, err)

	other := NewDigest([]byte("seventeentons"))
	assert.NotEqual(t, d, other)
}

func TestContributorString(t *testing.T) {
	both := Contributor{Name: "alice", Email: "alice@example.com"}
	assert.Equal(t, "alice <alice@example.com>", both.String())

	nameOnly := Contributor{Name: "alice"}
	assert.Equal(t, "alice", nameOnly.String())

	emailOnly := Contributor{Email: "alice@example.com"}
	assert.Equal(t, "alice@example.com", emailOnly.String())
}
