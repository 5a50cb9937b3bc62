package rulesdata_test

import (
	"context"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/suite"

	"github.com/tavernkeep/campaign-api/internal/errors"
	"github.com/tavernkeep/campaign-api/internal/locale"
	"github.com/tavernkeep/campaign-api/internal/rulesdata"
)

// countingFS counts how many times each path is opened.
type countingFS struct {
	inner fstest.MapFS
	opens sync.Map // path -> *int64
}

func (c *countingFS) Open(name string) (fs.File, error) {
	counter, _ := c.opens.LoadOrStore(name, new(int64))
	atomic.AddInt64(counter.(*int64), 1)
	return c.inner.Open(name)
}

func (c *countingFS) openCount(name string) int64 {
	counter, ok := c.opens.Load(name)
	if !ok {
		return 0
	}
	return atomic.LoadInt64(counter.(*int64))
}

type StoreTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func fixtureFS(payload string) *countingFS {
	return &countingFS{inner: fstest.MapFS{
		"data/en/monsters.json": &fstest.MapFile{Data: []byte(payload)},
	}}
}

func (s *StoreTestSuite) TestGetBundledDatasets() {
	store := rulesdata.New(nil)

	for _, loc := range []locale.Locale{locale.English, locale.Spanish} {
		for _, category := range rulesdata.Categories() {
			ds, err := store.Get(s.ctx, loc, category)
			s.Require().NoError(err, "locale=%s category=%s", loc, category)
			s.Assert().NotEmpty(ds.Results)
			s.Assert().Equal(len(ds.Results), ds.Total)
			s.Assert().NotNil(ds.ByIndex)
		}
	}
}

func (s *StoreTestSuite) TestGetMemoizesAndReturnsSamePointer() {
	fsys := fixtureFS(`{"results":[{"index":"goblin","name":"Goblin"}]}`)
	store := rulesdata.New(&rulesdata.Config{FS: fsys})

	first, err := store.Get(s.ctx, locale.English, rulesdata.CategoryMonsters)
	s.Require().NoError(err)

	second, err := store.Get(s.ctx, locale.English, rulesdata.CategoryMonsters)
	s.Require().NoError(err)

	s.Assert().Same(first, second)
	s.Assert().Equal(int64(1), fsys.openCount("data/en/monsters.json"))
}

func (s *StoreTestSuite) TestConcurrentFirstAccessLoadsOnce() {
	fsys := fixtureFS(`{"results":[{"index":"goblin","name":"Goblin"}]}`)
	store := rulesdata.New(&rulesdata.Config{FS: fsys})

	const callers = 32
	results := make([]interface{}, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			ds, err := store.Get(s.ctx, locale.English, rulesdata.CategoryMonsters)
			s.Assert().NoError(err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		s.Assert().Same(results[0], results[i])
	}
	s.Assert().Equal(int64(1), fsys.openCount("data/en/monsters.json"))
}

func (s *StoreTestSuite) TestByIndexDerivedSkippingBlankIndexes() {
	fsys := fixtureFS(`{"results":[{"index":"goblin","name":"Goblin"},{"name":"Unnamed"}]}`)
	store := rulesdata.New(&rulesdata.Config{FS: fsys})

	ds, err := store.Get(s.ctx, locale.English, rulesdata.CategoryMonsters)
	s.Require().NoError(err)
	s.Assert().Len(ds.Results, 2)
	s.Assert().Len(ds.ByIndex, 1)
	s.Assert().Equal("Goblin", ds.ByIndex["goblin"].Name)
}

func (s *StoreTestSuite) TestMissingDatasetIsInternalError() {
	store := rulesdata.New(&rulesdata.Config{FS: fstest.MapFS{}})

	_, err := store.Get(s.ctx, locale.Spanish, rulesdata.CategorySpells)
	s.Require().Error(err)
	s.Assert().True(errors.IsInternal(err))
	s.Assert().Contains(err.Error(), "es")
	s.Assert().Contains(err.Error(), "spells")
}

func (s *StoreTestSuite) TestDuplicateIndexFailsLoad() {
	fsys := fixtureFS(`{"results":[{"index":"goblin"},{"index":"goblin"}]}`)
	store := rulesdata.New(&rulesdata.Config{FS: fsys})

	_, err := store.Get(s.ctx, locale.English, rulesdata.CategoryMonsters)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "duplicate index")
}

func (s *StoreTestSuite) TestInvalidClassLearningLevelFailsLoad() {
	fsys := &countingFS{inner: fstest.MapFS{
		"data/en/class-learning.json": &fstest.MapFile{
			Data: []byte(`{"results":[{"index":"wizard","levels":[{"level":21}]}]}`),
		},
	}}
	store := rulesdata.New(&rulesdata.Config{FS: fsys})

	_, err := store.Get(s.ctx, locale.English, rulesdata.CategoryClassLearning)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "invalid level")
}

func (s *StoreTestSuite) TestMalformedJSONFailsLoad() {
	fsys := fixtureFS(`{"results": [{`)
	store := rulesdata.New(&rulesdata.Config{FS: fsys})

	_, err := store.Get(s.ctx, locale.English, rulesdata.CategoryMonsters)
	s.Require().Error(err)
}
