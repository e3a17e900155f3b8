package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry/status"
)

const (
	typicalAssetsNum = 1000 // default number of allocated slots for assets in a branch
)

// ListAssets returns the current assets of a branch: for every asset
// name and kind, the version its head points to.
//
// Results come ordered by kind, then name. An empty branch argument
// lists the resolved read branch.
func (r *Registry) ListAssets(ctx context.Context, branch string, opts ...ListOption) (model.AssetDescriptors, error) {
	var err error
	defer func(t0 time.Time) {
		if r.MetricsEnabled() {
			r.m.Usage.UsedAll(t0, "ListAssets")(err)
		}
	}(time.Now())

	assets := make(model.AssetDescriptors, 0, typicalAssetsNum)

	assetsChan, workers := r.listAssetsChan(ctx, branch, opts...)

	// consume batches of ordered assets
	err = doSelectAssets(assetsChan, func(assetBatch model.AssetDescriptors) {
		assets = append(assets, assetBatch...)
	})

	workers.Wait()

	return assets, err // we may have some batches resolved before the error occurred
}

// ApplyAssetFunc is a function to be applied on an asset
type ApplyAssetFunc func(model.AssetDescriptor) error

// ListAssetsApply applies some function to the current assets of a
// branch, in order of kind, then name.
func (r *Registry) ListAssetsApply(ctx context.Context, branch string, apply ApplyAssetFunc, opts ...ListOption) error {
	var (
		err, applyErr error
		once          sync.Once
	)

	assetChan := make(chan model.AssetDescriptor)
	doneChan := make(chan struct{}, 1)

	clean := func() {
		close(doneChan)
	}
	interruptAndClean := func() {
		doneChan <- struct{}{}
		close(doneChan)
	}

	// collect asset metadata asynchronously
	go func(assetChan chan<- model.AssetDescriptor, doneChan chan struct{}) {
		defer close(assetChan)

		assetsChan, workers := r.listAssetsChan(ctx, branch, append(opts, WithDoneChan(doneChan))...)

		err = doSelectAssets(assetsChan, func(assetBatch model.AssetDescriptors) {
			for _, asset := range assetBatch {
				assetChan <- asset // transfer a batch of metadata to the applied func
			}
		})
		once.Do(clean)

		workers.Wait()
	}(assetChan, doneChan)

	// apply function on collected metadata
	for asset := range assetChan {
		if applyErr = apply(asset); applyErr != nil {
			// wind down goroutines, but when nothing is left to be interrupted
			once.Do(interruptAndClean)
			for range assetChan {
			} // wait for close
			break
		}
	}
	// collect errors
	switch {
	case err == status.ErrInterrupted && applyErr != nil:
		return applyErr
	case err != nil:
		return err
	case applyErr != nil:
		return applyErr
	default:
		return nil
	}
}

// assetEvent catches a single asset with possible retrieval error
type assetEvent struct {
	asset model.AssetDescriptor
	err   error
}

// assetsEvent catches a collection of assets with possible retrieval error
type assetsEvent struct {
	assets model.AssetDescriptors
	err    error
}

func (r *Registry) listAssetsChan(ctx context.Context, branch string, opts ...ListOption) (chan assetsEvent, *sync.WaitGroup) {
	var wg sync.WaitGroup

	settings := defaultSettings()
	for _, bApply := range opts {
		bApply(&settings)
	}

	if branch == "" {
		branch = r.scope.ReadBranch
	} else {
		branch = model.SanitizeBranchName(branch)
	}

	batchChan := make(chan assetsEvent, 1) // buffered to 1 to avoid blocking on early errors

	// internal signaling channels
	doneWithKeysChan := make(chan struct{}, 1)
	doneWithAssetsChan := make(chan struct{}, 1)

	if settings.doneChannel != nil {
		// watch for an interruption signal requested by caller
		wg.Add(1)
		go watchForInterrupts(settings.doneChannel, &wg, doneWithKeysChan, doneWithAssetsChan)
	}

	keysChan := make(chan keyBatchEvent, 1)

	iterator := func(next string) ([]string, string, error) {
		return r.vMetaStore().KeysPrefix(ctx, next,
			model.GetArchivePathPrefixToHeads(r.scope.Project, branch), "", settings.batchSize)
	}
	// starting keys retrieval
	wg.Add(1)
	chans := fetchKeysChans{
		keysChan:         keysChan,
		doneWithKeysChan: doneWithKeysChan,
	}
	go fetchKeys(iterator, chans, &wg) // scan for key batches

	// start asset metadata retrieval
	wg.Add(1)
	go r.fetchAssets(ctx, settings, keysChan, batchChan, doneWithKeysChan, doneWithAssetsChan, &wg)

	// let the gc clean up internal signaling channels left open after wg goroutines are done.

	// return at once. Caller may chose to wait on returned WaitGroup
	return batchChan, &wg
}

func doSelectAssets(assetsChan <-chan assetsEvent, do func(model.AssetDescriptors)) error {
	// consume batches of ordered asset metadata
	for assetBatch := range assetsChan {
		if assetBatch.err != nil {
			return assetBatch.err
		}
		do(assetBatch.assets)
	}
	return nil
}

// fetchAssets waits on a channel of key batches and outputs batches of
// descriptors corresponding to these keys
func (r *Registry) fetchAssets(ctx context.Context, settings Settings,
	keysChan <-chan keyBatchEvent, batchChan chan<- assetsEvent,
	doneWithKeysChan chan<- struct{}, doneChan <-chan struct{}, wg *sync.WaitGroup) {
	defer func() {
		close(batchChan)
		wg.Done()
	}()

	for {
		select {
		case <-doneChan:
			batchChan <- assetsEvent{err: status.ErrInterrupted}
			return
		case keyBatch, isOpen := <-keysChan:
			if !isOpen {
				return
			}
			if keyBatch.err != nil {
				batchChan <- assetsEvent{err: keyBatch.err}
				return
			}
			batch, err := r.fetchAssetBatch(ctx, settings, keyBatch.keys)
			if err != nil {
				doneWithKeysChan <- struct{}{} // stop co-worker
				batchChan <- assetsEvent{err: err}
				return
			}
			// send out a single batch of (ordered) asset descriptors
			batchChan <- assetsEvent{assets: batch}
		}
	}
}

// fetchAssetBatch performs a parallel fetch for a batch of assets
// identified by their head keys, then reorders the result by key.
func (r *Registry) fetchAssetBatch(ctx context.Context, settings Settings, keys []string) (model.AssetDescriptors, error) {
	var (
		workers, wg sync.WaitGroup
		werr        error
	)

	assetChan := make(chan assetEvent)
	keyChan := make(chan string)
	doneChan := make(chan struct{}, 1)
	defer close(doneChan)

	// spin up workers pool
	for i := 0; i < minInt(settings.concurrentList, len(keys)); i++ {
		workers.Add(1)
		go r.getAssetAsync(ctx, keyChan, assetChan, &workers)
	}

	as := make(model.AssetDescriptors, 0, len(keys))

	// distribute work. Stop immediately on first error reported by a worker
	wg.Add(1)
	go distributeKeys(keys)(keyChan, doneChan, &wg)

	// wait for workers to complete
	wg.Add(1)
	go func(wg *sync.WaitGroup) {
		defer wg.Done()
		workers.Wait()
		close(assetChan)
	}(&wg)

	// watch for results and coalesce
	for a := range assetChan {
		if a.err != nil && werr == nil {
			werr = a.err
			doneChan <- struct{}{} // interrupts key distribution (non-blocking)
			for range assetChan {
			} // wait for close
			break
		}
		as = append(as, a.asset)
	}

	wg.Wait()

	if werr != nil {
		return nil, werr
	}

	// sort result batch
	sort.Sort(as)
	return as, nil
}

// getAssetAsync resolves the head pointer behind each single key
// submitted as input, then fetches the version descriptor it names
func (r *Registry) getAssetAsync(ctx context.Context, input <-chan string, output chan<- assetEvent, wg *sync.WaitGroup) {
	defer wg.Done()
	for k := range input {
		apc, err := model.GetArchivePathComponents(k)
		if err != nil {
			output <- assetEvent{err: err}
			continue
		}
		head, err := r.getHead(ctx, apc.Branch, apc.Kind, apc.Name)
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				continue
			}
			output <- assetEvent{err: err}
			continue
		}
		ad, err := r.getVersion(ctx, apc.Branch, apc.Kind, apc.Name, head.VersionID)
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				continue
			}
			output <- assetEvent{err: err}
			continue
		}
		output <- assetEvent{asset: ad}
	}
}
