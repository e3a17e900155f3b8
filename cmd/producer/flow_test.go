package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/obproject/obproject/pkg/config"
	"github.com/obproject/obproject/pkg/flow"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/project"
	"github.com/obproject/obproject/pkg/storage/localfs"
	"github.com/obproject/obproject/pkg/stores"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores() stores.Stores {
	return stores.NewStores(
		localfs.New(afero.NewMemMapFs()),
		localfs.New(afero.NewMemMapFs()),
		localfs.New(afero.NewMemMapFs()),
		localfs.New(afero.NewMemMapFs()),
	)
}

func testProject(t *testing.T, st stores.Stores) *project.Project {
	p, err := project.New(
		project.Config(&config.ProjectConfig{Project: "example"}),
		project.Stores(st),
		project.User("tester"),
	)
	require.NoError(t, err)
	return p
}

func TestProducerFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := testStores()

	descriptor, err := producerFlow().Execute(ctx, testProject(t, st))
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusSucceeded, descriptor.Status)
	require.Len(t, descriptor.Steps, 4)
	for _, step := range descriptor.Steps {
		assert.Equal(t, model.RunStatusSucceeded, step.Status)
	}

	// registered assets are visible to an independent handle over the
	// same stores, as for a separate process
	reader := testProject(t, st)

	payload, ad, err := reader.GetData(ctx, dataAssetName)
	require.NoError(t, err)
	assert.Equal(t, "producer_flow", ad.Workflow.Flow)
	assert.Equal(t, "start", ad.Workflow.Step)
	assert.Equal(t, "5", ad.Annotations["row_count"])
	assert.Equal(t, "producer_flow", ad.Annotations["source"])
	assert.NotEmpty(t, ad.Annotations["pathspec"])

	var data sampleData
	require.NoError(t, json.Unmarshal(payload, &data))
	assert.Equal(t, "Hello from ProducerFlow", data.Message)
	assert.Equal(t, descriptor.ID, data.RunID)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, data.Values)

	payload, ad, err = reader.GetModel(ctx, modelAssetName)
	require.NoError(t, err)
	assert.Equal(t, "register_model", ad.Workflow.Step)
	assert.Equal(t, "0.95", ad.Annotations["accuracy"])
	assert.Equal(t, "mock", ad.Annotations["framework"])

	var m sampleModel
	require.NoError(t, json.Unmarshal(payload, &m))
	assert.Equal(t, "mock_classifier", m.Type)
	assert.InDelta(t, 0.95, m.Accuracy, 1e-9)
	assert.Equal(t, 100, m.Hyperparams.Epochs)
}

func TestProducerFlowRunRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := testStores()
	p := testProject(t, st)

	descriptor, err := producerFlow().Execute(ctx, p, flow.Logger(nil))
	require.NoError(t, err)

	persisted, err := p.Registry().GetRun(ctx, "producer_flow", descriptor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusSucceeded, persisted.Status)
	assert.Equal(t, descriptor.ID, persisted.ID)

	card, err := p.Registry().GetRunCard(ctx, "producer_flow", descriptor.ID)
	require.NoError(t, err)
	assert.Contains(t, string(card), "producer_flow run "+descriptor.ID)
	assert.Contains(t, string(card), "verified sample_data")
}
