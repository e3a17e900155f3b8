package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/obproject/obproject/pkg/flow"
	"go.uber.org/zap"
)

const (
	dataAssetName  = "sample_data"
	modelAssetName = "sample_model"
)

// consumerFlow retrieves the assets registered by the producer flow.
// Retrieval misses are recorded per step and surface as a failed run in
// the final step, so the whole flow is observed before giving a verdict.
func consumerFlow() *flow.Flow {
	return &flow.Flow{
		Name: "consumer_flow",
		Steps: []flow.Step{
			{Name: "start", Run: getData},
			{Name: "get_model", Run: getModel},
			{Name: "process", Run: process},
			{Name: "end", Run: conclude},
		},
	}
}

func getData(ctx context.Context, run *flow.Run) error {
	payload, descriptor, err := run.Project().GetData(ctx, dataAssetName)
	if err != nil {
		run.Logger().Error("data asset retrieval failed", zap.Error(err))
		run.Stash(dataAssetName+"_error", err.Error())
		run.Note("data asset retrieval failed: %v", err)
		return nil
	}
	run.Logger().Info("retrieved data asset",
		zap.String("name", dataAssetName),
		zap.String("version", descriptor.ID),
		zap.String("producer", descriptor.Workflow.Pathspec()),
	)
	run.Stash(dataAssetName, payload)
	run.Note("retrieved data asset %s version %s", dataAssetName, descriptor.ID)
	return nil
}

func getModel(ctx context.Context, run *flow.Run) error {
	payload, descriptor, err := run.Project().GetModel(ctx, modelAssetName)
	if err != nil {
		run.Logger().Error("model asset retrieval failed", zap.Error(err))
		run.Stash(modelAssetName+"_error", err.Error())
		run.Note("model asset retrieval failed: %v", err)
		return nil
	}
	run.Logger().Info("retrieved model asset",
		zap.String("name", modelAssetName),
		zap.String("version", descriptor.ID),
		zap.String("producer", descriptor.Workflow.Pathspec()),
	)
	run.Stash(modelAssetName, payload)
	run.Note("retrieved model asset %s version %s", modelAssetName, descriptor.ID)
	return nil
}

// process inspects the payloads retrieved so far. Missing assets are
// simply skipped here, the final step reports them.
func process(ctx context.Context, run *flow.Run) error {
	if payload, found := run.Lookup(dataAssetName); found {
		var data struct {
			Message string `json:"message"`
			Values  []int  `json:"values"`
		}
		if err := json.Unmarshal(payload.([]byte), &data); err != nil {
			return fmt.Errorf("decode %s payload: %w", dataAssetName, err)
		}
		run.Logger().Info("processing data asset",
			zap.String("message", data.Message),
			zap.Ints("values", data.Values),
		)
		run.Note("data message: %s, values: %v", data.Message, data.Values)
	}

	if payload, found := run.Lookup(modelAssetName); found {
		var model struct {
			Type     string  `json:"type"`
			Accuracy float64 `json:"accuracy"`
		}
		if err := json.Unmarshal(payload.([]byte), &model); err != nil {
			return fmt.Errorf("decode %s payload: %w", modelAssetName, err)
		}
		run.Logger().Info("processing model asset",
			zap.String("type", model.Type),
			zap.Float64("accuracy", model.Accuracy),
		)
		run.Note("model type: %s, accuracy: %v", model.Type, model.Accuracy)
	}
	return nil
}

func conclude(ctx context.Context, run *flow.Run) error {
	var failed []string
	for _, name := range []string{dataAssetName, modelAssetName} {
		if reason, found := run.Lookup(name + "_error"); found {
			run.Note("%s: %v", name, reason)
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("retrieval failed for: %v", failed)
	}
	run.Note("all asset retrievals succeeded")
	return nil
}
