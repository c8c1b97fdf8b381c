package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"
	"github.com/ZanzyTHEbar/dupesweep/sweep/query"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

// stubInteractor answers prompts with canned values
type stubInteractor struct {
	path     string
	ok       bool
	err      error
	confirm  bool
	messages []string
	prompted int
}

func (s *stubInteractor) Output(message string)                    { s.messages = append(s.messages, message) }
func (s *stubInteractor) Warning(message string)                   { s.messages = append(s.messages, message) }
func (s *stubInteractor) Error(message string, err error)          { s.messages = append(s.messages, message) }
func (s *stubInteractor) StartSpinner(message string)              {}
func (s *stubInteractor) StopSpinner(success bool, message string) {}

func (s *stubInteractor) SelectDirectory(_ context.Context, _ string) (string, bool, error) {
	s.prompted++
	return s.path, s.ok, s.err
}

func (s *stubInteractor) Confirm(_ context.Context, _ string) (bool, error) {
	return s.confirm, nil
}

type ServiceTestSuite struct {
	suite.Suite
	root string
	svc  *Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.root = s.T().TempDir()
	svc, err := New(DefaultOptions(), nil, zerolog.Nop())
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceTestSuite) write(rel, content string, modified time.Time) string {
	path := filepath.Join(s.root, rel)
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	s.Require().NoError(os.Chtimes(path, modified, modified))
	return path
}

func (s *ServiceTestSuite) TestOldestCopyIsOriginal() {
	a := s.write("a.txt", "X", t0)
	b := s.write("b.txt", "X", t0.Add(time.Hour))

	result, err := s.svc.FindDuplicates(context.Background(), s.root)
	s.Require().NoError(err)

	s.Require().Len(result.DuplicateGroups, 1)
	g := result.DuplicateGroups[0]
	s.Equal(a, g.Original().Path)
	s.Require().Len(g.Duplicates(), 1)
	s.Equal(b, g.Duplicates()[0].Path)
	s.EqualValues(1, g.DuplicateSize())

	s.NotEmpty(result.ID)
	s.Equal(2, result.FilesScanned)
	s.Equal(1, result.Summary.GroupCount)
	s.Equal(1, result.Summary.TotalDuplicates)
	s.EqualValues(1, result.Summary.ReclaimableBytes)
	s.Require().Len(result.DuplicateFiles, 2)
	s.True(result.DuplicateFiles[0].IsOriginal)
	s.False(result.DuplicateFiles[1].IsOriginal)
}

func (s *ServiceTestSuite) TestEmptyFilesNeverGroup() {
	s.write("empty1.txt", "", t0)
	s.write("empty2.txt", "", t0)

	result, err := s.svc.FindDuplicates(context.Background(), s.root)
	s.Require().NoError(err)

	s.Empty(result.DuplicateGroups)
	s.NotNil(result.DuplicateGroups)
	s.NotNil(result.DuplicateFiles)
	s.Equal(2, result.FilesScanned)
	s.Zero(result.Summary.GroupCount)
}

func (s *ServiceTestSuite) TestNestedDuplicatesAndCleanup() {
	orig := s.write("photos/2019/img.jpg", "pixels", t0)
	dup1 := s.write("backup/img.jpg", "pixels", t0.Add(24*time.Hour))
	dup2 := s.write("backup/old/img-copy.jpg", "pixels", t0.Add(48*time.Hour))
	unique := s.write("notes.md", "unique", t0)

	ctx := context.Background()
	result, err := s.svc.FindDuplicates(ctx, s.root)
	s.Require().NoError(err)
	s.Require().Len(result.DuplicateGroups, 1)
	s.Equal(orig, result.DuplicateGroups[0].Original().Path)

	cleanup := s.svc.CleanDuplicateFiles(ctx, result.DuplicateGroups)
	s.True(cleanup.Success)
	s.Equal(2, cleanup.DeletedCount)
	s.EqualValues(2*len("pixels"), cleanup.FreedSpace)
	s.Empty(cleanup.Errors)

	s.FileExists(orig)
	s.FileExists(unique)
	s.NoFileExists(dup1)
	s.NoFileExists(dup2)

	again, err := s.svc.FindDuplicates(ctx, s.root)
	s.Require().NoError(err)
	s.Empty(again.DuplicateGroups)
}

func (s *ServiceTestSuite) TestDebugLogCarriesMetrics() {
	s.write("a.txt", "same", t0)
	dup := s.write("b.txt", "same", t0.Add(time.Minute))

	var buf bytes.Buffer
	svc, err := New(DefaultOptions(), nil, zerolog.New(&buf).Level(zerolog.DebugLevel))
	s.Require().NoError(err)

	ctx := context.Background()
	result, err := svc.FindDuplicates(ctx, s.root)
	s.Require().NoError(err)
	s.Contains(buf.String(), `"message":"Walk metrics"`)
	s.Contains(buf.String(), `"total_walks":1`)
	s.Contains(buf.String(), `"total_files":2`)

	buf.Reset()
	cleanup := svc.CleanDuplicateFiles(ctx, result.DuplicateGroups)
	s.Equal(1, cleanup.DeletedCount)
	s.NoFileExists(dup)
	s.Contains(buf.String(), `"message":"Deletion metrics"`)
	s.Contains(buf.String(), `"bytes_freed":4`)
}

func (s *ServiceTestSuite) TestMissingRootIsFatal() {
	_, err := s.svc.FindDuplicates(context.Background(), filepath.Join(s.root, "nope"))
	s.Require().Error(err)
	s.ErrorIs(err, common.ErrFatalScan)
}

func (s *ServiceTestSuite) TestCancelledScan() {
	s.write("a.txt", "X", t0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.svc.FindDuplicates(ctx, s.root)
	s.ErrorIs(err, context.Canceled)
}

func (s *ServiceTestSuite) TestListFilesIsShallow() {
	s.write("top.txt", "1", t0)
	s.write("sub/deep.txt", "2", t0)

	files, err := s.svc.ListFiles(context.Background(), s.root)
	s.Require().NoError(err)
	s.Require().Len(files, 1)
	s.Equal("top.txt", files[0].Name)
}

func (s *ServiceTestSuite) TestSearch() {
	s.write("keep.go", "package x", t0)
	s.write("scratch.tmp", "junk", t0)
	s.write("nested/other.tmp", "junk", t0)

	ctx := context.Background()
	req := query.Request{Query: ".tmp", Fields: query.AllFields(), Mode: query.ModeAnd, Now: t0}

	shallow, err := s.svc.Search(ctx, s.root, false, req)
	s.Require().NoError(err)
	s.Require().Len(shallow, 1)
	s.Equal("scratch.tmp", shallow[0].Name)

	deep, err := s.svc.Search(ctx, s.root, true, req)
	s.Require().NoError(err)
	s.Len(deep, 2)

	all, err := s.svc.Search(ctx, s.root, false, query.Request{Fields: query.AllFields(), Now: t0})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ServiceTestSuite) TestSelectRoot() {
	ctx := context.Background()

	stub := &stubInteractor{path: s.root, ok: true}
	s.svc.interactor = stub
	path, ok, err := s.svc.SelectRoot(ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(s.root, path)

	stub.ok = false
	path, ok, err = s.svc.SelectRoot(ctx)
	s.NoError(err)
	s.False(ok)
	s.Empty(path)

	file := s.write("plain.txt", "x", t0)
	stub.path, stub.ok = file, true
	_, ok, err = s.svc.SelectRoot(ctx)
	s.Error(err)
	s.False(ok)

	boom := errors.New("dialog crashed")
	stub.err = boom
	_, _, err = s.svc.SelectRoot(ctx)
	s.ErrorIs(err, boom)
	s.Equal(4, stub.prompted)

	s.svc.interactor = nil
	_, _, err = s.svc.SelectRoot(ctx)
	s.ErrorIs(err, ErrNoInteractor)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	opts := DefaultOptions()
	opts.Hash.Algorithm = "md5"
	_, err := New(opts, nil, zerolog.Nop())
	assert.Error(t, err)
}

func group(t *testing.T, hash string, paths ...string) *types.DuplicateGroup {
	t.Helper()
	files := make([]types.FileRecord, len(paths))
	for i, p := range paths {
		files[i] = types.FileRecord{Name: filepath.Base(p), Path: p, Size: 10, Modified: t0.Add(time.Duration(i) * time.Minute)}
	}
	g, err := types.NewDuplicateGroup(hash, files)
	require.NoError(t, err)
	return g
}

func hashes(groups []*types.DuplicateGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Hash()
	}
	return out
}

func TestSelectGroups(t *testing.T) {
	groups := []*types.DuplicateGroup{
		group(t, "ff01", "/data/music/a.mp3", "/data/backup/a.mp3", "/data/docs/a.mp3"),
		group(t, "aa02", "/data/docs/r.pdf", "/data/docs-old/r.pdf"),
		group(t, "ab03", "/data/tmp/x.txt", "/data/docs/x.txt"),
	}

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"empty keeps all", Selection{}, []string{"ff01", "aa02", "ab03"}},
		{"hash prefix", Selection{HashPrefixes: []string{"a"}}, []string{"aa02", "ab03"}},
		{"hash prefix case folded", Selection{HashPrefixes: []string{"FF"}}, []string{"ff01"}},
		{"several prefixes keep order", Selection{HashPrefixes: []string{"ab", "ff"}}, []string{"ff01", "ab03"}},
		{"under needs a duplicate below the directory", Selection{Under: []string{"/data/docs"}}, []string{"ff01", "ab03"}},
		{"under respects component boundary", Selection{Under: []string{"/data/docs-old"}}, []string{"aa02"}},
		{"original alone under directory", Selection{Under: []string{"/data/music"}}, nil},
		{"both criteria intersect", Selection{HashPrefixes: []string{"a"}, Under: []string{"/data/docs"}}, []string{"ab03"}},
		{"no match", Selection{HashPrefixes: []string{"zz"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectGroups(groups, tt.sel)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, hashes(got))
		})
	}
}

func TestSelectGroupsUnderNarrowsDeletionTargets(t *testing.T) {
	g := group(t, "ff01", "/data/music/a.mp3", "/data/backup/a.mp3", "/data/docs/a.mp3")

	got := SelectGroups([]*types.DuplicateGroup{g}, Selection{Under: []string{"/data/docs"}})
	require.Len(t, got, 1)

	assert.Equal(t, "ff01", got[0].Hash())
	assert.Equal(t, "/data/music/a.mp3", got[0].Original().Path)
	require.Len(t, got[0].Duplicates(), 1)
	assert.Equal(t, "/data/docs/a.mp3", got[0].Duplicates()[0].Path)

	// the input group is left alone
	assert.Len(t, g.Duplicates(), 2)

	whole := SelectGroups([]*types.DuplicateGroup{g}, Selection{Under: []string{"/data"}})
	require.Len(t, whole, 1)
	assert.Same(t, g, whole[0])
}

func TestSelectGroupsRelativeUnder(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	g := group(t, "d0c5", filepath.Join(root, "keep", "r.pdf"), filepath.Join(root, "docs", "r.pdf"))

	for _, dir := range []string{"docs", "./docs", "docs/"} {
		got := SelectGroups([]*types.DuplicateGroup{g}, Selection{Under: []string{dir}})
		require.Len(t, got, 1, dir)
		assert.Equal(t, filepath.Join(root, "docs", "r.pdf"), got[0].Duplicates()[0].Path, dir)
	}
}
