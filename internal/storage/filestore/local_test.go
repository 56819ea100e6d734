package filestore_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/storage/filestore"
)

func TestLocal_SaveReturnsPrefixedRef(t *testing.T) {
	st, err := filestore.NewLocal(t.TempDir(), "uploads")
	require.NoError(t, err)

	ref, err := st.Save(context.Background(), "Valley Photo.JPG", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "uploads/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".jpg"), ref)
	assert.NotContains(t, ref, "Valley")

	p, err := st.Path(ref)
	require.NoError(t, err)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(b))
}

func TestLocal_SameNameNeverCollides(t *testing.T) {
	st, err := filestore.NewLocal(t.TempDir(), "uploads")
	require.NoError(t, err)

	const n = 32
	refs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref, err := st.Save(context.Background(), "same.png", strings.NewReader("x"))
			assert.NoError(t, err)
			refs[i] = ref
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, r := range refs {
		assert.False(t, seen[r], "duplicate ref %s", r)
		seen[r] = true
	}
}

func TestLocal_SuspiciousExtensionDropped(t *testing.T) {
	st, err := filestore.NewLocal(t.TempDir(), "uploads")
	require.NoError(t, err)

	ref, err := st.Save(context.Background(), `C:\fakepath\shell.p/hp`, strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, ref, "php")

	ref, err = st.Save(context.Background(), "noext", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, strings.TrimPrefix(ref, "uploads/"), ".")
}

func TestLocal_Remove(t *testing.T) {
	st, err := filestore.NewLocal(t.TempDir(), "uploads")
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := st.Save(ctx, "a.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, st.Remove(ctx, ref))

	p, _ := st.Path(ref)
	_, err = os.Stat(p)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// second remove is a no-op
	assert.NoError(t, st.Remove(ctx, ref))
}

func TestLocal_RemoveRejectsForeignRefs(t *testing.T) {
	st, err := filestore.NewLocal(t.TempDir(), "uploads")
	require.NoError(t, err)

	for _, ref := range []string{"../etc/passwd", "uploads/../x", "other/a.jpg", "uploads/", "uploads/a/b.jpg"} {
		err := st.Remove(context.Background(), ref)
		assert.ErrorIs(t, err, filestore.ErrForeignRef, ref)
	}
}

func TestLocal_CanceledContext(t *testing.T) {
	st, err := filestore.NewLocal(t.TempDir(), "uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = st.Save(ctx, "a.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
