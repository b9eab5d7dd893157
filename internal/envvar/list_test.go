package envvar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/schaermu/envvar/internal/envvar/mocks"
)

func TestSplitList(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value string
		delim string
		want  []string
	}{
		{name: "plain", value: "a;b;c", delim: ";", want: []string{"a", "b", "c"}},
		{name: "single trailing delimiter", value: "a;b;c;", delim: ";", want: []string{"a", "b", "c"}},
		{name: "only one trailing delimiter trimmed", value: "a;b;;", delim: ";", want: []string{"a", "b", ""}},
		{name: "leading delimiter kept", value: ":a", delim: ":", want: []string{"", "a"}},
		{name: "multi-char delimiter", value: "a()b()", delim: "()", want: []string{"a", "b"}},
		{name: "empty value", value: "", delim: ":", want: []string{}},
		{name: "delimiter only", value: ":", delim: ":", want: []string{}},
		{name: "no delimiter", value: "a:b", delim: "", want: []string{"a:b"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitList(tc.value, tc.delim))
		})
	}
}

func TestSetListGetList_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name   string
		values []string
		delim  string
	}{
		{name: "single", values: []string{"/usr/bin"}, delim: ":"},
		{name: "several", values: []string{"/usr/bin", "/bin", "/opt/bin"}, delim: ":"},
		{name: "semicolon", values: []string{`C:\Windows`, `C:\Tools`}, delim: ";"},
		{name: "multi-char", values: []string{"a", "b", "c"}, delim: "||"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			vars := New(NewMemoryStore(nil))
			require.NoError(t, vars.SetList("LIST", tc.values, tc.delim))

			got, err := vars.GetList("LIST", tc.delim)
			require.NoError(t, err)
			assert.Equal(t, tc.values, got)
		})
	}
}

func TestGetList_NotFound(t *testing.T) {
	vars := New(NewMemoryStore(nil))
	_, err := vars.GetList("MISSING", ":")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendList(t *testing.T) {
	store := NewMemoryStore(map[string]string{"PATH": "/usr/bin:/bin"})
	vars := New(store)

	require.NoError(t, vars.AppendList("PATH", "/opt/bin", ":"))

	got, err := store.Get("PATH")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin:/bin:/opt/bin", got)
}

func TestAppendList_TrailingDelimiter(t *testing.T) {
	store := NewMemoryStore(map[string]string{"LIB": "a;b;"})
	vars := New(store)

	require.NoError(t, vars.AppendList("LIB", "c", ";"))

	got, err := store.Get("LIB")
	require.NoError(t, err)
	assert.Equal(t, "a;b;c", got)
}

func TestAppendList_MissingKey(t *testing.T) {
	store := NewMemoryStore(nil)
	vars := New(store)

	err := vars.AppendList("NEW", "x", ":")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get("NEW")
	assert.ErrorIs(t, err, ErrNotFound, "append must not create the variable")
}

func TestInsertList(t *testing.T) {
	for _, tc := range []struct {
		name    string
		index   int
		want    string
		wantErr error
	}{
		{name: "head", index: 0, want: "x:a:b:c"},
		{name: "middle", index: 1, want: "a:x:b:c"},
		{name: "at length appends", index: 3, want: "a:b:c:x"},
		{name: "beyond length", index: 4, wantErr: ErrIndexOutOfRange},
		{name: "negative", index: -1, wantErr: ErrIndexOutOfRange},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore(map[string]string{"L": "a:b:c"})
			err := New(store).InsertList("L", "x", tc.index, ":")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				got, _ := store.Get("L")
				assert.Equal(t, "a:b:c", got, "failed insert must not write")
				return
			}
			require.NoError(t, err)
			got, _ := store.Get("L")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRemoveList(t *testing.T) {
	for _, tc := range []struct {
		name    string
		index   int
		want    string
		wantErr error
	}{
		{name: "first", index: 0, want: "b:c"},
		{name: "last", index: 2, want: "a:b"},
		{name: "at length", index: 3, wantErr: ErrIndexOutOfRange},
		{name: "negative", index: -1, wantErr: ErrIndexOutOfRange},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore(map[string]string{"L": "a:b:c"})
			err := New(store).RemoveList("L", tc.index, ":")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			got, _ := store.Get("L")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRemoveListFrom_RemovesAllMatches(t *testing.T) {
	store := NewMemoryStore(map[string]string{"L": "a:x:b:x:c"})

	require.NoError(t, New(store).RemoveListFrom("L", "x", ":"))

	got, _ := store.Get("L")
	assert.Equal(t, "a:b:c", got)
}

func TestRemoveListFrom_NoMatchIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get("L").Return("a:b:c", nil)
	// No Set expected: a no-op must not write

	require.NoError(t, New(store).RemoveListFrom("L", "x", ":"))
}

func TestListOps_PropagateStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	vars := New(store)

	store.EXPECT().Get("L").Return("", ErrStoreUnavailable)
	assert.ErrorIs(t, vars.AppendList("L", "x", ":"), ErrStoreUnavailable)

	writeErr := errors.New("disk full")
	store.EXPECT().Get("L").Return("a:b", nil)
	store.EXPECT().Set("L", "a:b:x").Return(writeErr)
	assert.ErrorIs(t, vars.AppendList("L", "x", ":"), writeErr)
}

func TestPathHelpers(t *testing.T) {
	d := PathDelimiter
	store := NewMemoryStore(map[string]string{PathName: "one" + d + "two" + d})
	vars := New(store)

	paths, err := vars.GetPath()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, paths)

	require.NoError(t, vars.AppendPath("three"))
	require.NoError(t, vars.InsertPath("zero", 0))
	paths, _ = vars.GetPath()
	assert.Equal(t, []string{"zero", "one", "two", "three"}, paths)

	require.NoError(t, vars.RemovePath(1))
	require.NoError(t, vars.RemovePathFrom("three"))
	paths, _ = vars.GetPath()
	assert.Equal(t, []string{"zero", "two"}, paths)

	require.NoError(t, vars.SetPath([]string{"only"}))
	got, _ := store.Get(PathName)
	assert.Equal(t, "only", got)

	assert.ErrorIs(t, vars.InsertPath("x", 5), ErrIndexOutOfRange)
}
