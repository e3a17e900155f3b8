package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/storage/mockstorage"
	"github.com/obproject/obproject/pkg/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type assetFixture struct {
	name          string
	wantError     bool
	expected      model.AssetDescriptors
	errorContains []string
}

const (
	happyPath                 = "happy path"
	happyWithBatches          = "happy with batches"
	batchErrorTestcase        = "batch error"
	batchErrorVersionTestcase = "batch error version"
	testBatchSize             = 5
	maxTestKeys               = 100 * testBatchSize
)

var (
	initHeadKeysFixture        sync.Once
	headKeysBatchFixture       []string
	expectedAssetsBatchFixture model.AssetDescriptors
)

func assetTestCases() []assetFixture {
	return []assetFixture{
		{
			name: happyPath,
			expected: model.AssetDescriptors{
				fakeAD(model.KindData, "myID1", testVersionID),
				fakeAD(model.KindData, "myID2", testVersionID),
				fakeAD(model.KindData, "myID3", testVersionID),
			},
		},
		{
			name:     happyWithBatches,
			expected: expectedAssetsBatchFixture,
		},
		// error cases
		{
			name:          "no key",
			wantError:     true,
			errorContains: []string{"storage error"},
		},
		{
			name:          "invalid file name",
			wantError:     true,
			errorContains: []string{"path is invalid"},
		},
		{
			name:          "no archive path",
			wantError:     true,
			errorContains: []string{"get store error"},
		},
		{
			name:          "invalid yaml",
			wantError:     true,
			errorContains: []string{"yaml:"},
		},
		{
			name:          "invalid head",
			wantError:     true,
			errorContains: []string{"to be a ksuid"},
		},
		{
			name:          "inconsistent asset name",
			wantError:     true,
			errorContains: []string{"asset names in descriptor", "archive path"},
		},
		{
			name:          "io error",
			wantError:     true,
			errorContains: []string{"io error"},
		},
		// skipped assets
		{
			name: "skipped head",
			expected: model.AssetDescriptors{
				fakeAD(model.KindData, "myID1", testVersionID),
				fakeAD(model.KindData, "myID3", testVersionID),
			},
		},
		{
			name: "skipped version",
			expected: model.AssetDescriptors{
				fakeAD(model.KindData, "myID1", testVersionID),
				fakeAD(model.KindData, "myID3", testVersionID),
			},
		},
		// n-th batch returns an error while fetching keys
		{
			name:          batchErrorTestcase,
			expected:      expectedAssetsBatchFixture[0:25], // returned 5 first batches then bailed
			wantError:     true,
			errorContains: []string{"test key fetch error"},
		},
		// n-th batch returns an error while fetching version descriptors
		{
			name:          batchErrorVersionTestcase,
			expected:      expectedAssetsBatchFixture[0:25], // returned 5 first batches then bailed
			wantError:     true,
			errorContains: []string{"test version fetch error"},
		},
	}
}

func buildHeadKeysBatchFixture(t *testing.T) func() {
	return func() {
		headKeysBatchFixture = make([]string, maxTestKeys)
		expectedAssetsBatchFixture = make(model.AssetDescriptors, maxTestKeys)
		for i := 0; i < maxTestKeys; i++ {
			kind := model.KindData
			if i >= maxTestKeys/2 {
				kind = model.KindModel
			}
			name := fmt.Sprintf("asset%0.3d", i)
			headKeysBatchFixture[i] = fakeHeadPath(kind, name)
			expectedAssetsBatchFixture[i] = fakeAD(kind, name, testVersionID)
		}
		require.Truef(t, sort.IsSorted(expectedAssetsBatchFixture), "got %v", expectedAssetsBatchFixture)
	}
}

func goodVersionStore() *mockstorage.StoreMock {
	return &mockstorage.StoreMock{
		HasFunc:  goodHasFunc,
		KeysFunc: goodKeysFunc,
		GetFunc:  goodGetVersionFunc,
	}
}

func goodHeadStore(keysPrefixFunc func(context.Context, string, string, string, int) ([]string, string, error)) *mockstorage.StoreMock {
	return &mockstorage.StoreMock{
		HasFunc:        goodHasFunc,
		KeysPrefixFunc: keysPrefixFunc,
		KeysFunc:       goodKeysFunc,
		GetFunc:        goodGetHeadFunc,
	}
}

func mockedAssetStores(testcase string) stores.Stores {
	// builds mocked up test scenarios. Head pointers live in the
	// vmetadata store, version descriptors in the metadata store.
	switch testcase {
	case happyPath:
		return stores.NewStores(goodVersionStore(),
			goodHeadStore(goodKeysPrefixFunc("myID1", "myID2", "myID3")), nil, nil)
	case happyWithBatches:
		return stores.NewStores(goodVersionStore(),
			goodHeadStore(goodWindowKeysPrefixFunc(headKeysBatchFixture)), nil, nil)
	case "no key":
		return stores.NewStores(goodVersionStore(),
			goodHeadStore(func(_ context.Context, _ string, prefix string, delimiter string, count int) ([]string, string, error) {
				return nil, "", errors.New("storage error")
			}), nil, nil)
	case "invalid file name":
		return stores.NewStores(goodVersionStore(),
			goodHeadStore(func(_ context.Context, _ string, prefix string, delimiter string, count int) ([]string, string, error) {
				return []string{fakeHeadPath(model.KindData, "myID1"), "labels/x/wrong/head.yaml"}, "", nil
			}), nil, nil)
	case "no archive path":
		vmeta := goodHeadStore(goodKeysPrefixFunc("myID1", "myID2", "myID3"))
		vmeta.GetFunc = func(_ context.Context, pth string) (io.ReadCloser, error) {
			return nil, errors.New("get store error")
		}
		return stores.NewStores(goodVersionStore(), vmeta, nil, nil)
	case "invalid yaml":
		vmeta := goodHeadStore(goodKeysPrefixFunc("myID1", "myID2", "myID3"))
		vmeta.GetFunc = func(_ context.Context, pth string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(garbleYaml(buildHeadYaml(testVersionID)))), nil
		}
		return stores.NewStores(goodVersionStore(), vmeta, nil, nil)
	case "invalid head":
		vmeta := goodHeadStore(goodKeysPrefixFunc("myID1", "myID2", "myID3"))
		vmeta.GetFunc = func(_ context.Context, pth string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(buildHeadYaml("not-a-ksuid"))), nil
		}
		return stores.NewStores(goodVersionStore(), vmeta, nil, nil)
	case "inconsistent asset name":
		meta := goodVersionStore()
		meta.GetFunc = func(_ context.Context, pth string) (io.ReadCloser, error) {
			comp := extractComponents(pth)
			return io.NopCloser(strings.NewReader(buildAssetYaml(comp.Kind, "wrong", comp.VersionID))), nil
		}
		return stores.NewStores(meta,
			goodHeadStore(goodKeysPrefixFunc("myID1", "myID2", "myID3")), nil, nil)
	case "io error":
		meta := goodVersionStore()
		meta.GetFunc = func(_ context.Context, pth string) (io.ReadCloser, error) {
			return testReadCloserWithErr{}, nil
		}
		return stores.NewStores(meta,
			goodHeadStore(goodKeysPrefixFunc("myID1", "myID2", "myID3")), nil, nil)
	case "skipped head":
		vmeta := goodHeadStore(goodKeysPrefixFunc("myID1", "myID2", "myID3"))
		vmeta.HasFunc = func(_ context.Context, pth string) (bool, error) {
			return !strings.Contains(pth, "myID2"), nil
		}
		return stores.NewStores(goodVersionStore(), vmeta, nil, nil)
	case "skipped version":
		meta := goodVersionStore()
		meta.HasFunc = func(_ context.Context, pth string) (bool, error) {
			return !strings.Contains(pth, "myID2"), nil
		}
		return stores.NewStores(meta,
			goodHeadStore(goodKeysPrefixFunc("myID1", "myID2", "myID3")), nil, nil)
	case batchErrorTestcase:
		// error occurs somewhere after several batches of keys are successfully retrieved
		return stores.NewStores(goodVersionStore(),
			goodHeadStore(breakAfterFourBatches(headKeysBatchFixture)), nil, nil)
	case batchErrorVersionTestcase:
		// error occurs somewhere after several version descriptors are successfully retrieved
		meta := goodVersionStore()
		meta.GetFunc = breakAfterFiveVersionsGetFunc
		return stores.NewStores(meta,
			goodHeadStore(goodWindowKeysPrefixFunc(headKeysBatchFixture)), nil, nil)
	}
	return nil
}

func mockedRegistry(testcase string) *Registry {
	return New(
		Scope(model.Scope{Project: testProject, WriteBranch: testBranch, ReadBranch: testBranch}),
		Stores(mockedAssetStores(testcase)),
	)
}

func testListAssets(t *testing.T, concurrency int, i int) {
	initHeadKeysFixture.Do(buildHeadKeysBatchFixture(t))
	defer goleak.VerifyNone(t,
		// opencensus stats collection goroutine
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	for _, toPin := range assetTestCases() {
		testcase := toPin

		// ListAssets: blocking collection of assets
		t.Run(fmt.Sprintf("ListAssets-%s-%d-%d", testcase.name, concurrency, i), func(t *testing.T) {
			t.Parallel()
			r := mockedRegistry(testcase.name)
			assets, err := r.ListAssets(context.Background(), testBranch,
				ConcurrentList(concurrency), BatchSize(testBatchSize))
			assertAssets(t, testcase, assets, err)
		})

		// ListAssetsApply emulating blocking collection of assets
		t.Run(fmt.Sprintf("ListAssetsApply-%s-%d-%d", testcase.name, concurrency, i), func(t *testing.T) {
			t.Parallel()
			r := mockedRegistry(testcase.name)
			assets := make(model.AssetDescriptors, 0, typicalAssetsNum)
			err := r.ListAssetsApply(context.Background(), testBranch, func(asset model.AssetDescriptor) error {
				assets = append(assets, asset)
				return nil
			}, ConcurrentList(concurrency), BatchSize(testBatchSize))
			assertAssets(t, testcase, assets, err)
		})

		// ListAssetsApply with a func failing randomly
		t.Run(fmt.Sprintf("ListAssetsApplyFail-%s-%d-%d", testcase.name, concurrency, i), func(t *testing.T) {
			t.Parallel()
			r := mockedRegistry(testcase.name)
			assets := make(model.AssetDescriptors, 0, typicalAssetsNum)
			var fail bool
			err := r.ListAssetsApply(context.Background(), testBranch, func(asset model.AssetDescriptor) error {
				assets = append(assets, asset)
				fail = rand.Intn(2) > 0 //#nosec
				if fail {
					return errors.New("applied test func error")
				}
				return nil
			}, ConcurrentList(concurrency), BatchSize(testBatchSize))

			if fail {
				require.Error(t, err)
				if !testcase.wantError {
					assert.Contains(t, err.Error(), "applied test func")
					return
				}
				switch testcase.name {
				case batchErrorTestcase, batchErrorVersionTestcase:
					assert.True(t, strings.Contains(err.Error(), testcase.errorContains[0]) || strings.Contains(err.Error(), "applied test func"))
				default:
					assertAssets(t, testcase, assets, err)
				}
				return
			}
			assertAssets(t, testcase, assets, err)
		})
	}
}

func assertAssets(t *testing.T, testcase assetFixture, assets model.AssetDescriptors, err error) {
	if testcase.wantError {
		require.Error(t, err)
		for _, expectedMsg := range testcase.errorContains { // assert error message (opt-in)
			assert.Contains(t, err.Error(), expectedMsg)
		}

		assert.Len(t, assets, len(testcase.expected)) // assert result, possibly partial
		return
	}
	require.NoError(t, err)
	assert.ElementsMatch(t, testcase.expected, assets, "expected returned assets to match expected descriptors")
	assert.Truef(t, sort.IsSorted(assets), "expected a sorted output, got: %v", assets)
}

func TestListAssets(t *testing.T) {
	for i := 0; i < 10; i++ { // check results remain stable over 10 independent iterations
		for _, concurrency := range []int{0, 1, 50, 100, 400} { // test several concurrency parameters
			t.Logf("simulating ListAssets with concurrency-factor=%d, iteration=%d", concurrency, i)
			testListAssets(t, concurrency, i)
		}
	}
}
