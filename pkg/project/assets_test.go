package project

import (
	"context"
	"errors"
	"testing"

	"github.com/obproject/obproject/pkg/config"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProject(t *testing.T, opts ...Option) *Project {
	base := []Option{
		Config(testProjectConfig("")),
		Stores(testProjectStores()),
		User("tester"),
	}
	p, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return p
}

func TestRegisterGetRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newTestProject(t)

	payload := []byte(`{"message": "Hello from ProducerFlow", "values": [1, 2, 3, 4, 5]}`)
	ad, err := p.RegisterData(ctx, "sample_data", payload, map[string]string{"row_count": "5"})
	require.NoError(t, err)
	assert.Equal(t, model.KindData, ad.Kind)
	assert.Equal(t, "user_tester", ad.Branch)
	assert.Equal(t, "5", ad.Annotations["row_count"])
	assert.Equal(t, "tester", ad.Contributor.Name)

	got, fetched, err := p.GetData(ctx, "sample_data")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, ad.ID, fetched.ID)

	// models are a separate namespace
	_, _, err = p.GetModel(ctx, "sample_data")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound), "got: %v", err)

	modelPayload := []byte(`{"type": "mock_classifier", "accuracy": 0.95}`)
	_, err = p.RegisterModel(ctx, "sample_model", modelPayload, nil)
	require.NoError(t, err)
	got, _, err = p.GetModel(ctx, "sample_model")
	require.NoError(t, err)
	assert.Equal(t, modelPayload, got)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newTestProject(t)

	_, _, err := p.GetData(ctx, "never_registered")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound), "got: %v", err)
}

func TestDeclaredAssetCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	catalog := Declared([]config.DeclaredAsset{
		{Name: "sample_data", Kind: model.KindData, Dir: "data/sample_data"},
		{Name: "sample_model", Kind: model.KindModel, Dir: "models/sample_model"},
	})

	// by default undeclared names only warn
	p := newTestProject(t, catalog)
	_, err := p.RegisterData(ctx, "undeclared", []byte("x"), nil)
	require.NoError(t, err)

	// strict mode rejects them
	p = newTestProject(t, catalog, WithStrictAssets(true))
	_, err = p.RegisterData(ctx, "undeclared", []byte("x"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndeclaredAsset), "got: %v", err)

	// kind matters: sample_data is declared as data, not model
	_, err = p.RegisterModel(ctx, "sample_data", []byte("x"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndeclaredAsset), "got: %v", err)

	_, err = p.RegisterData(ctx, "sample_data", []byte("x"), nil)
	require.NoError(t, err)
	_, err = p.RegisterModel(ctx, "sample_model", []byte("x"), nil)
	require.NoError(t, err)
}

func TestBoundWorkflow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newTestProject(t)

	ref := model.WorkflowRef{Flow: "producer_flow", RunID: model.NewRunID(), Step: "start"}
	bound := p.Bound(ref)

	ad, err := bound.RegisterData(ctx, "from_flow", []byte("x"), nil)
	require.NoError(t, err)
	assert.Equal(t, ref, ad.Workflow)
	assert.Equal(t, "producer_flow/"+ref.RunID+"/start", ad.Workflow.Pathspec())

	// the original handle stays unbound
	ad, err = p.RegisterData(ctx, "ad_hoc", []byte("y"), nil)
	require.NoError(t, err)
	assert.Empty(t, ad.Workflow.Flow)
}
