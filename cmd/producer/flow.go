package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/obproject/obproject/pkg/flow"
	"go.uber.org/zap"
)

const (
	dataAssetName  = "sample_data"
	modelAssetName = "sample_model"
)

// sampleData is the payload registered as the data asset
type sampleData struct {
	Message   string  `json:"message"`
	RunID     string  `json:"run_id"`
	Timestamp float64 `json:"timestamp"`
	Values    []int   `json:"values"`
}

// sampleModel is the payload registered as the model asset
type sampleModel struct {
	Type        string      `json:"type"`
	Version     string      `json:"version"`
	Accuracy    float64     `json:"accuracy"`
	CreatedAt   float64     `json:"created_at"`
	Hyperparams hyperparams `json:"hyperparams"`
}

type hyperparams struct {
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
}

// producerFlow registers the sample assets, then retrieves them to verify
// write-then-read consistency within one run. Retrieval failures in the
// verify step are recorded but do not fail the run.
func producerFlow() *flow.Flow {
	return &flow.Flow{
		Name: "producer_flow",
		Steps: []flow.Step{
			{Name: "start", Run: registerData},
			{Name: "register_model", Run: registerModel},
			{Name: "verify", Run: verify},
			{Name: "end", Run: summarize},
		},
	}
}

func registerData(ctx context.Context, run *flow.Run) error {
	data := sampleData{
		Message:   "Hello from ProducerFlow",
		RunID:     run.ID(),
		Timestamp: float64(time.Now().UnixMilli()) / 1000,
		Values:    []int{1, 2, 3, 4, 5},
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", dataAssetName, err)
	}

	descriptor, err := run.Project().RegisterData(ctx, dataAssetName, payload, map[string]string{
		"row_count": fmt.Sprint(len(data.Values)),
		"source":    run.Flow(),
		"pathspec":  run.Pathspec(),
	})
	if err != nil {
		return err
	}
	run.Logger().Info("registered data asset",
		zap.String("name", dataAssetName),
		zap.String("version", descriptor.ID),
	)
	run.Stash(dataAssetName, payload)
	run.Note("registered data asset %s version %s", dataAssetName, descriptor.ID)
	return nil
}

func registerModel(ctx context.Context, run *flow.Run) error {
	model := sampleModel{
		Type:      "mock_classifier",
		Version:   "1.0",
		Accuracy:  0.95,
		CreatedAt: float64(time.Now().UnixMilli()) / 1000,
		Hyperparams: hyperparams{
			LearningRate: 0.01,
			Epochs:       100,
		},
	}
	payload, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", modelAssetName, err)
	}

	descriptor, err := run.Project().RegisterModel(ctx, modelAssetName, payload, map[string]string{
		"accuracy":  fmt.Sprint(model.Accuracy),
		"framework": "mock",
		"pathspec":  run.Pathspec(),
	})
	if err != nil {
		return err
	}
	run.Logger().Info("registered model asset",
		zap.String("name", modelAssetName),
		zap.String("version", descriptor.ID),
	)
	run.Stash(modelAssetName, payload)
	run.Note("registered model asset %s version %s", modelAssetName, descriptor.ID)
	return nil
}

// verify re-reads both assets registered by this run. The outcome is
// stashed for the summary: a retrieval miss does not fail the flow.
func verify(ctx context.Context, run *flow.Run) error {
	retrieved, _, err := run.Project().GetData(ctx, dataAssetName)
	recordVerification(run, dataAssetName, retrieved, err)

	retrieved, _, err = run.Project().GetModel(ctx, modelAssetName)
	recordVerification(run, modelAssetName, retrieved, err)
	return nil
}

func recordVerification(run *flow.Run, name string, retrieved []byte, err error) {
	if err != nil {
		run.Logger().Error("verification failed", zap.String("name", name), zap.Error(err))
		run.Stash(name+"_error", err.Error())
		run.Note("verification of %s failed: %v", name, err)
		return
	}
	registered, _ := run.Lookup(name)
	if payload, ok := registered.([]byte); ok && string(payload) != string(retrieved) {
		run.Logger().Error("verification mismatch", zap.String("name", name))
		run.Stash(name+"_error", "retrieved payload differs from registered payload")
		run.Note("verification of %s failed: retrieved payload differs", name)
		return
	}
	run.Logger().Info("verified asset", zap.String("name", name))
	run.Note("verified %s: retrieval matches registration", name)
}

func summarize(ctx context.Context, run *flow.Run) error {
	failures := 0
	for _, name := range []string{dataAssetName, modelAssetName} {
		if reason, found := run.Lookup(name + "_error"); found {
			run.Logger().Warn("asset verification failed",
				zap.String("name", name),
				zap.Any("reason", reason),
			)
			failures++
		}
	}
	if failures == 0 {
		run.Note("all asset verifications succeeded")
	} else {
		run.Note("%d asset verification(s) failed", failures)
	}
	return nil
}
