package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot-the-spy-bot/internal/model"
	"spot-the-spy-bot/internal/session"
)

// fakeSender records platform calls and can be told to fail for given chats.
type fakeSender struct {
	mu           sync.Mutex
	sends        []int64
	editTexts    []int64
	editCaptions []int64
	editMedias   []int64
	deletes      []int64
	failChats    map[int64]bool
	nextID       int
}

func newFakeSender() *fakeSender {
	return &fakeSender{failChats: make(map[int64]bool), nextID: 100}
}

func (f *fakeSender) fail(chatID int64) {
	f.mu.Lock()
	f.failChats[chatID] = true
	f.mu.Unlock()
}

func (f *fakeSender) record(kind *[]int64, chatID int64, hasPhoto bool) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failChats[chatID] {
		return MessageRef{}, errors.New("chat unavailable")
	}
	*kind = append(*kind, chatID)
	f.nextID++
	return MessageRef{MessageID: f.nextID, HasPhoto: hasPhoto}, nil
}

func (f *fakeSender) Send(chatID int64, v View) (MessageRef, error) {
	return f.record(&f.sends, chatID, v.Photo != nil)
}

func (f *fakeSender) EditText(chatID int64, messageID int, v View) (MessageRef, error) {
	return f.record(&f.editTexts, chatID, false)
}

func (f *fakeSender) EditCaption(chatID int64, messageID int, v View) (MessageRef, error) {
	return f.record(&f.editCaptions, chatID, true)
}

func (f *fakeSender) EditMedia(chatID int64, messageID int, v View) (MessageRef, error) {
	return f.record(&f.editMedias, chatID, true)
}

func (f *fakeSender) Delete(chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, chatID)
	return nil
}

func (f *fakeSender) counts() (sends, texts, captions, medias int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends), len(f.editTexts), len(f.editCaptions), len(f.editMedias)
}

// fakeGames serves a settable game snapshot and counts fetches.
type fakeGames struct {
	mu    sync.Mutex
	game  *model.Game
	err   error
	calls int
}

func (f *fakeGames) Get(ctx context.Context, gameID uuid.UUID) (*model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	snapshot := *f.game
	return &snapshot, nil
}

func (f *fakeGames) set(game *model.Game) {
	f.mu.Lock()
	f.game = game
	f.mu.Unlock()
}

func (f *fakeGames) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testGame(players int) *model.Game {
	game := &model.Game{
		GameID:       uuid.New(),
		PlayerAmount: players,
	}
	for i := 0; i < players; i++ {
		game.Players = append(game.Players, model.Player{
			UserID:     uuid.New(),
			TelegramID: int64(i + 1),
			FirstName:  fmt.Sprintf("p%d", i+1),
			Role:       model.RoleCitizen,
		})
	}
	game.HostID = game.Players[0].UserID
	game.Players[0].Role = model.RoleSpy
	game.SecretWord = "casino"
	return game
}

func bindAll(registry *session.Registry, game *model.Game, hasPhoto bool) {
	for i, p := range game.Players {
		registry.Bind(game.GameID, p.UserID, session.Binding{
			ChatID:     p.TelegramID,
			MessageID:  i + 1,
			HasPhoto:   hasPhoto,
			TelegramID: p.TelegramID,
			FirstName:  p.FirstName,
			Locale:     "en",
		})
	}
}

func newTestEngine(sender Sender, registry *session.Registry, games GameFetcher, interval time.Duration) *Engine {
	return NewEngine(sender, registry, games, NewQRSource("spybot"), "spybot", interval)
}

// TestBroadcastRolesReachesEveryoneDespiteFailure verifies one failing
// recipient does not block the rest, and that only the survivors are
// rebound.
func TestBroadcastRolesReachesEveryoneDespiteFailure(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(4)
	bindAll(registry, game, false)

	failing := game.Players[2]
	sender.fail(failing.TelegramID)

	e := newTestEngine(sender, registry, &fakeGames{game: game}, time.Minute)
	e.BroadcastRoles(game)

	_, texts, _, _ := sender.counts()
	assert.Equal(t, 3, texts)

	// The failed recipient keeps the old binding for the next pass.
	b, ok := registry.Lookup(game.GameID, failing.UserID)
	require.True(t, ok)
	assert.Equal(t, 3, b.MessageID)

	// Survivors were rebound to the refreshed refs.
	b, ok = registry.Lookup(game.GameID, game.Players[0].UserID)
	require.True(t, ok)
	assert.Greater(t, b.MessageID, 100)
}

// TestBroadcastJoinIsAsymmetric verifies the newcomer gets a fresh photo
// message while everyone already recruited gets a caption refresh.
func TestBroadcastJoinIsAsymmetric(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(4)
	bindAll(registry, game, true)

	newcomer := game.Players[3]
	registry.Bind(game.GameID, newcomer.UserID, session.Binding{
		ChatID:     newcomer.TelegramID,
		MessageID:  0,
		TelegramID: newcomer.TelegramID,
		FirstName:  newcomer.FirstName,
		Locale:     "en",
	})

	e := newTestEngine(sender, registry, &fakeGames{game: game}, time.Minute)
	e.BroadcastJoin(game, newcomer.UserID)

	sends, texts, captions, medias := sender.counts()
	assert.Equal(t, 1, sends)
	assert.Equal(t, 3, captions)
	assert.Zero(t, texts)
	assert.Zero(t, medias)

	b, ok := registry.Lookup(game.GameID, newcomer.UserID)
	require.True(t, ok)
	assert.NotZero(t, b.MessageID)
	assert.True(t, b.HasPhoto)
}

// TestBroadcastStoppedSkipsActor verifies the teardown broadcast touches
// everyone except the user who initiated it.
func TestBroadcastStoppedSkipsActor(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(3)
	bindAll(registry, game, false)

	actor := game.Players[0]
	e := newTestEngine(sender, registry, &fakeGames{game: game}, time.Minute)
	e.BroadcastStopped(game.GameID, actor.UserID)

	_, texts, _, _ := sender.counts()
	assert.Equal(t, 2, texts)

	f := sender
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.NotContains(t, f.editTexts, actor.TelegramID)
}

// TestBroadcastRecruitmentSwapsQRCodeOnce verifies a ready qr_code_url
// forces one media replace per game; subsequent passes fall back to caption
// edits.
func TestBroadcastRecruitmentSwapsQRCodeOnce(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(3)
	game.QRCodeURL = "https://service/qr/abc.png"
	bindAll(registry, game, true)

	e := newTestEngine(sender, registry, &fakeGames{game: game}, time.Minute)

	e.BroadcastRecruitment(game)
	_, _, captions, medias := sender.counts()
	assert.Equal(t, 3, medias, "first pass replaces everyone's media")
	assert.Zero(t, captions)

	e.BroadcastRecruitment(game)
	_, _, captions, medias = sender.counts()
	assert.Equal(t, 3, medias, "no further media replaces for the same url")
	assert.Equal(t, 3, captions)
}

// TestBroadcastFinishRevealsSpyToEveryone also covers the host flag: the
// finish view carries a per-recipient keyboard but all recipients get one
// edit each.
func TestBroadcastFinishRevealsSpyToEveryone(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(5)
	bindAll(registry, game, false)

	e := newTestEngine(sender, registry, &fakeGames{game: game}, time.Minute)
	e.BroadcastFinish(game)

	_, texts, _, _ := sender.counts()
	assert.Equal(t, 5, texts)
}

// TestRebindAllPreservesBindings verifies restart carries the whole roster's
// messages over to the fresh game id.
func TestRebindAllPreservesBindings(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(3)
	bindAll(registry, game, true)

	e := newTestEngine(sender, registry, &fakeGames{game: game}, time.Minute)

	newID := uuid.New()
	e.RebindAll(game.GameID, newID)

	assert.Equal(t, 0, registry.Size(game.GameID))
	assert.Equal(t, 3, registry.Size(newID))

	b, ok := registry.Lookup(newID, game.Players[1].UserID)
	require.True(t, ok)
	assert.Equal(t, 2, b.MessageID)
}

// TestPollerRefreshesUntilStart exercises the poller lifecycle: periodic
// refreshes while recruiting, termination once the fetched game has started.
func TestPollerRefreshesUntilStart(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(3)
	bindAll(registry, game, true)

	games := &fakeGames{game: game}
	e := newTestEngine(sender, registry, games, 5*time.Millisecond)

	e.StartPoller(game.GameID)
	time.Sleep(40 * time.Millisecond)
	require.Greater(t, games.fetches(), 1, "poller keeps refreshing while recruiting")

	started := *game
	started.HasStarted = true
	games.set(&started)

	time.Sleep(40 * time.Millisecond)
	after := games.fetches()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, games.fetches(), "poller exits after observing the start")
}

// TestPollerExitsOnEmptyRegistry verifies an abandoned game does not keep a
// poller alive.
func TestPollerExitsOnEmptyRegistry(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	games := &fakeGames{game: testGame(3)}
	e := newTestEngine(sender, registry, games, 5*time.Millisecond)

	e.StartPoller(uuid.New())
	time.Sleep(40 * time.Millisecond)

	assert.Zero(t, games.fetches(), "no participants, nothing to fetch")
	e.Close()
}

// TestStopPollerHaltsRefreshes verifies no refresh lands after StopPoller
// returns and the next tick passes.
func TestStopPollerHaltsRefreshes(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(3)
	bindAll(registry, game, true)

	games := &fakeGames{game: game}
	e := newTestEngine(sender, registry, games, 5*time.Millisecond)

	e.StartPoller(game.GameID)
	time.Sleep(25 * time.Millisecond)
	e.StopPoller(game.GameID)

	time.Sleep(25 * time.Millisecond)
	after := games.fetches()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, after, games.fetches())
}

// TestPollerSurvivesFetchErrors verifies a fetch error terminates the poller
// without touching any recipient.
func TestPollerSurvivesFetchErrors(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(3)
	bindAll(registry, game, true)

	games := &fakeGames{game: game, err: errors.New("service down")}
	e := newTestEngine(sender, registry, games, 5*time.Millisecond)

	e.StartPoller(game.GameID)
	time.Sleep(40 * time.Millisecond)

	sends, texts, captions, medias := sender.counts()
	assert.Zero(t, sends+texts+captions+medias)
	e.Close()
}

// TestCloseWaitsForPollers verifies Close drains every running poller.
func TestCloseWaitsForPollers(t *testing.T) {
	sender := newFakeSender()
	registry := session.NewRegistry()
	game := testGame(3)
	bindAll(registry, game, true)

	games := &fakeGames{game: game}
	e := newTestEngine(sender, registry, games, 5*time.Millisecond)

	e.StartPoller(game.GameID)
	e.StartPoller(uuid.New())
	e.Close()

	before := games.fetches()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, before, games.fetches())
}
