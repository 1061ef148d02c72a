package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutMoodCoalescesWithinWindow(t *testing.T) {
	api := newTestAPI()
	u := api.addUser(t, "amy", "tok-amy", false, false)

	now := int64(1_000_000)
	api.mood.nowMS = func() int64 { return now }

	rec := api.do(t, http.MethodPut, "/mood", "tok-amy", map[string]float64{"pleasantness": 0.5, "energy": -0.2})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, api.st.moods, 1)
	assert.Equal(t, int64(1), api.st.userByID(u.ID).StatsMoodSets)

	// Second write 5s later lands inside the coalescing window.
	now += 5_000
	rec = api.do(t, http.MethodPut, "/mood", "tok-amy", map[string]float64{"pleasantness": 0.1, "energy": 0.1})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, api.st.moods, 1)
	m := api.st.moods[0]
	assert.Equal(t, 0.1, m.Pleasantness)
	assert.Equal(t, 0.1, m.Energy)
	assert.Equal(t, now, m.Timestamp)
	assert.Equal(t, int64(1), api.st.userByID(u.ID).StatsMoodSets)
}

func TestPutMoodNewEpisodeAfterWindow(t *testing.T) {
	api := newTestAPI()
	u := api.addUser(t, "amy", "tok-amy", false, false)

	now := int64(1_000_000)
	api.mood.nowMS = func() int64 { return now }
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/mood", "tok-amy", map[string]float64{"pleasantness": 0.5, "energy": 0.5}).Code)

	now += 10_000
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/mood", "tok-amy", map[string]float64{"pleasantness": -0.5, "energy": 0}).Code)

	assert.Len(t, api.st.moods, 2)
	assert.Equal(t, int64(2), api.st.userByID(u.ID).StatsMoodSets)
}

func TestPutMoodValidation(t *testing.T) {
	api := newTestAPI()
	api.addUser(t, "amy", "tok-amy", false, false)

	cases := []any{
		map[string]float64{"pleasantness": 1.5, "energy": 0},
		map[string]float64{"pleasantness": 0, "energy": -2},
		map[string]string{"pleasantness": "high", "energy": "low"},
	}
	for _, body := range cases {
		rec := api.do(t, http.MethodPut, "/mood", "tok-amy", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, kindInvalid, errStatus(t, rec))
	}
	assert.Empty(t, api.st.moods)
}

func TestPutMoodRequiresToken(t *testing.T) {
	api := newTestAPI()
	rec := api.do(t, http.MethodPut, "/mood", "", map[string]float64{"pleasantness": 0, "energy": 0})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMoodDefaultsToSyntheticSample(t *testing.T) {
	api := newTestAPI()
	api.addUser(t, "amy", "tok-amy", false, false)

	rec := api.do(t, http.MethodGet, "/mood", "tok-amy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entry := decodeBody[moodEntry](t, rec)
	assert.Equal(t, int64(0), entry.Timestamp)
	assert.Equal(t, 0.0, entry.Pleasantness)
	assert.Equal(t, 0.0, entry.Energy)
}

func TestGetMoodByUsernameRespectsPrivacy(t *testing.T) {
	api := newTestAPI()
	api.addUser(t, "pub", "tok-pub", false, false)
	api.addUser(t, "hid", "tok-hid", true, false) // private profile implies private history

	rec := api.do(t, http.MethodGet, "/mood/pub", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/mood/hid", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, kindDenied, errStatus(t, rec))

	// Malformed usernames fail closed rather than falling back to the token.
	rec = api.do(t, http.MethodGet, "/mood/NOPE", "tok-pub", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, kindDenied, errStatus(t, rec))

	rec = api.do(t, http.MethodGet, "/mood/ghost", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, kindDenied, errStatus(t, rec))
}

func TestDeleteMood(t *testing.T) {
	api := newTestAPI()
	api.addUser(t, "amy", "tok-amy", false, false)

	now := int64(50_000)
	api.mood.nowMS = func() int64 { return now }
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/mood", "tok-amy", map[string]float64{"pleasantness": 0.3, "energy": 0.3}).Code)

	rec := api.do(t, http.MethodDelete, "/mood", "tok-amy", map[string][]int64{"timestamps": {now, now + 999}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decodeBody[map[string]int64](t, rec)["deleted"])
	assert.Empty(t, api.st.moods)

	rec = api.do(t, http.MethodDelete, "/mood", "tok-amy", map[string][]int64{"timestamps": {}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, "/mood", "tok-amy", map[string][]int64{"timestamps": {-5}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Full write-coalesce-delete round trip.
func TestMoodLifecycle(t *testing.T) {
	api := newTestAPI()
	u := api.addUser(t, "amy", "tok-amy", false, false)

	now := int64(1_000_000)
	api.mood.nowMS = func() int64 { return now }

	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/mood", "tok-amy", map[string]float64{"pleasantness": 0.5, "energy": -0.2}).Code)
	require.Len(t, api.st.moods, 1)
	require.Equal(t, int64(1), api.st.userByID(u.ID).StatsMoodSets)

	now += 1
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/mood", "tok-amy", map[string]float64{"pleasantness": 0.1, "energy": 0.1}).Code)
	require.Len(t, api.st.moods, 1)
	require.Equal(t, int64(1), api.st.userByID(u.ID).StatsMoodSets)
	require.Equal(t, 0.1, api.st.moods[0].Pleasantness)
	require.Equal(t, 0.1, api.st.moods[0].Energy)

	rec := api.do(t, http.MethodDelete, "/mood", "tok-amy", map[string][]int64{"timestamps": {api.st.moods[0].Timestamp}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(1), decodeBody[map[string]int64](t, rec)["deleted"])
}
