package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/enescakir/emoji"
	"github.com/jack-games/jackofhearts/internal/database/roomstate/model"
	"github.com/jack-games/jackofhearts/internal/logging"
	"github.com/jack-games/jackofhearts/internal/protocol"
	"github.com/valyala/fastrand"
	"go.uber.org/zap"
)

type Phase uint8

const (
	PhaseWaiting Phase = iota + 1
	PhaseDiscussion
	PhaseGuessing
	PhaseFinished
)

const (
	MinRoomPlayers = 3
	MaxRoomPlayers = 10
)

// NoGuess is the sentinel reported for a living player who never
// submitted a guess before the round resolved.
const NoGuess = "no guess"

const (
	WinnerOtherPlayers = "otherPlayers"
	WinnerJackOfHearts = "jackOfHearts"
	WinnerLastPlayer   = "lastPlayer"
	WinnerDraw         = "draw"
)

const (
	reasonWrongGuess = "wrongGuess"
	reasonNoGuess    = "noGuess"
	reasonDisconnect = "disconnect"
)

type Config struct {
	ID             string
	MinPlayers     int
	DiscussionTime int
	GuessingTime   int
	Password       string
	Suits          []string
	Ranks          []string

	// Persist receives a consistent copy of the room state after every
	// significant transition. Done fires once when the game finishes.
	Persist func(model.State)
	Done    func(model.State)

	Logger *zap.SugaredLogger
}

// Room is one isolated game session. The mutex is the room's single
// serialization point: message handlers and timer ticks alike mutate
// state only while holding it.
type Room struct {
	mtx sync.RWMutex

	config             Config
	players            []*Player
	eliminated         []model.Elimination
	jack               *Player
	phase              Phase
	currentRound       int
	discussionTimeLeft int
	guessingTimeLeft   int
	timer              *countdown
	createdAt          time.Time
	logger             *zap.SugaredLogger
}

func NewRoom(config Config) *Room {
	if len(config.Suits) == 0 {
		config.Suits = DefaultSuits
	}
	if len(config.Ranks) == 0 {
		config.Ranks = DefaultRanks
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &Room{
		config:       config,
		phase:        PhaseWaiting,
		currentRound: 1,
		createdAt:    time.Now(),
		logger:       logger.Named("game.room").With("room", config.ID),
	}
}

func (r *Room) ID() string {
	return r.config.ID
}

// Stop cancels any live countdown. Room state stays as it is.
func (r *Room) Stop() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.cancelCountdownLocked()
}

func (r *Room) Phase() Phase {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.phase
}

func (r *Room) CurrentRound() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.currentRound
}

// Joinable reports the room for the lobby list while the game has not
// started. The password itself never leaves the room.
func (r *Room) Joinable() (protocol.RoomSummary, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	if r.phase != PhaseWaiting {
		return protocol.RoomSummary{}, false
	}

	return protocol.RoomSummary{
		ID:             r.config.ID,
		Name:           fmt.Sprintf("Room %s", r.config.ID),
		Players:        len(r.players),
		MaxPlayers:     MaxRoomPlayers,
		HasPassword:    r.config.Password != "",
		MinPlayers:     r.config.MinPlayers,
		DiscussionTime: r.config.DiscussionTime,
		GuessingTime:   r.config.GuessingTime,
	}, true
}

// Admit adds a connection to the room under the admission rules: exact
// password match, unique living name, one player slot per connection. A
// name whose connection has dropped is treated as a reconnect and gets
// the new connection attached to the existing player record.
func (r *Room) Admit(conn Conn, name, password string) (*Player, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if password == "" {
		return nil, PasswordRequiredErr
	}
	if password != r.config.Password {
		return nil, WrongPasswordErr
	}

	for _, p := range r.players {
		if p.conn != nil && p.conn == conn {
			return nil, AlreadyJoinedErr
		}
	}

	if existing := r.findByNameLocked(name); existing != nil {
		if existing.conn != nil && !existing.Disconnected {
			return nil, NameTakenErr
		}

		existing.conn = conn
		existing.Disconnected = false
		r.logger.Infof("player %s reconnected", name)

		if r.phase != PhaseWaiting {
			r.sendLocked(existing, protocol.NewPlayersInfo(r.viewLocked(existing)))
		}
		r.resumeCountdownLocked()
		r.persistLocked()
		return existing, nil
	}

	if len(r.players) >= MaxRoomPlayers {
		return nil, RoomFullErr
	}

	player := NewPlayer(conn, name)
	r.players = append(r.players, player)
	r.logger.Infof("player %s joined, %d players total", name, len(r.players))

	if len(r.players) >= r.config.MinPlayers && r.phase == PhaseWaiting {
		r.startGameLocked()
	}

	r.persistLocked()
	return player, nil
}

func (r *Room) startGameLocked() {
	deck := BuildDeck(r.config.Suits, r.config.Ranks)
	Shuffle(deck)

	for i, p := range r.players {
		p.Suit = deck[i].Suit
		p.Rank = deck[i].Rank
	}

	r.assignJackLocked()

	r.phase = PhaseDiscussion
	r.discussionTimeLeft = r.config.DiscussionTime
	r.logger.Infof("game started with %d players", len(r.players))

	for _, viewer := range r.players {
		r.sendLocked(viewer, protocol.NewGameStarted(
			protocol.OwnCard{ID: viewer.ID, Rank: viewer.Rank, IsJack: viewer.IsJack},
			r.viewLocked(viewer),
		))
	}

	r.startCountdownLocked(r.discussionTick)
}

// assignJackLocked keeps exactly one living role holder. A living holder
// is left alone; otherwise all flags clear and one living player is
// picked uniformly.
func (r *Room) assignJackLocked() {
	if r.jack != nil && r.jack.Alive {
		return
	}

	living := r.livingLocked()
	if len(living) == 0 {
		return
	}

	for _, p := range r.players {
		p.IsJack = false
	}

	next := living[int(fastrand.Uint32n(uint32(len(living))))]
	next.IsJack = true
	r.jack = next
}

func (r *Room) livingLocked() []*Player {
	var living []*Player
	for _, p := range r.players {
		if p.Alive {
			living = append(living, p)
		}
	}
	return living
}

func (r *Room) findByNameLocked(name string) *Player {
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Room) findByIDLocked(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// viewLocked renders every player's card as the viewer sees it: the
// viewer's own suit is masked and nobody is ever shown as the jack.
func (r *Room) viewLocked(viewer *Player) []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		card := p.Rank + p.Suit
		suit := p.Suit
		if p == viewer {
			card = p.Rank + "?"
			suit = "?"
		}
		infos = append(infos, protocol.PlayerInfo{
			ID:         p.ID,
			Name:       p.Name,
			Card:       card,
			SuitSymbol: suit,
			IsAlive:    p.Alive,
			IsJack:     false,
		})
	}
	return infos
}

func (r *Room) startCountdownLocked(tick func(*countdown) bool) {
	r.cancelCountdownLocked()
	t := newCountdown()
	r.timer = t
	go t.run(tick)
}

func (r *Room) cancelCountdownLocked() {
	if r.timer != nil {
		r.timer.cancel()
		r.timer = nil
	}
}

// resumeCountdownLocked restarts the countdown of a restored room once a
// player is back. Rooms loaded from a snapshot keep their remaining
// seconds but run no timer until then.
func (r *Room) resumeCountdownLocked() {
	if r.timer != nil {
		return
	}

	switch r.phase {
	case PhaseDiscussion:
		if r.discussionTimeLeft <= 0 {
			r.discussionTimeLeft = r.config.DiscussionTime
		}
		r.startCountdownLocked(r.discussionTick)
	case PhaseGuessing:
		if r.guessingTimeLeft <= 0 {
			r.guessingTimeLeft = r.config.GuessingTime
		}
		r.startCountdownLocked(r.guessingTick)
	}
}

func (r *Room) discussionTick(t *countdown) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.timer != t || r.phase != PhaseDiscussion {
		return false
	}

	r.discussionTimeLeft--
	if r.discussionTimeLeft <= 0 {
		r.cancelCountdownLocked()
		r.startGuessingLocked()
		return false
	}

	r.broadcastLocked(protocol.NewDiscussionTimerUpdate(r.discussionTimeLeft, r.config.DiscussionTime))
	return true
}

func (r *Room) guessingTick(t *countdown) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.timer != t || r.phase != PhaseGuessing {
		return false
	}

	r.guessingTimeLeft--
	if r.guessingTimeLeft <= 0 {
		r.cancelCountdownLocked()
		r.resolveRoundLocked()
		return false
	}

	r.broadcastLocked(protocol.NewGuessingTimerUpdate(r.guessingTimeLeft, r.config.GuessingTime))
	return true
}

func (r *Room) startGuessingLocked() {
	r.phase = PhaseGuessing
	r.guessingTimeLeft = r.config.GuessingTime

	for _, p := range r.players {
		if p.Alive {
			p.HasGuessed = false
			p.Guess = ""
		}
	}

	r.broadcastLocked(protocol.NewGuessingPhaseStarted())
	r.startCountdownLocked(r.guessingTick)
}

// SubmitGuess records a living player's suit guess during the guessing
// phase. When the last pending guess arrives the round resolves at once,
// cancelling the countdown before it can fire.
func (r *Room) SubmitGuess(playerID, guess string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	player := r.findByIDLocked(playerID)
	if player == nil || !player.Alive || r.phase != PhaseGuessing {
		return
	}

	player.Guess = guess
	player.HasGuessed = true
	r.sendLocked(player, protocol.NewGuessSubmitted(guess))

	if r.allSubmittedLocked() {
		r.cancelCountdownLocked()
		r.resolveRoundLocked()
	}
}

func (r *Room) allSubmittedLocked() bool {
	for _, p := range r.players {
		if p.Alive && !p.HasGuessed {
			return false
		}
	}
	return true
}

// resolveRoundLocked scores the round: wrong guesses and non-responders
// are eliminated, then the win conditions are checked on the
// post-elimination state before any role reassignment. Runs at most once
// per round regardless of which trigger fired first.
func (r *Room) resolveRoundLocked() {
	if r.phase != PhaseGuessing {
		return
	}
	r.cancelCountdownLocked()

	incorrect := make([]protocol.EliminatedPlayer, 0)
	for _, p := range r.players {
		if !p.Alive {
			continue
		}

		if p.HasGuessed && p.Guess == p.Suit {
			p.HasGuessed = false
			continue
		}

		guess := p.Guess
		reason := reasonWrongGuess
		if !p.HasGuessed {
			guess = NoGuess
			reason = reasonNoGuess
		}

		p.Alive = false
		p.HasGuessed = false
		incorrect = append(incorrect, protocol.EliminatedPlayer{
			ID:          p.ID,
			Name:        p.Name,
			CorrectSuit: p.Suit,
			Guess:       guess,
		})
		r.eliminated = append(r.eliminated, model.Elimination{
			ID:          p.ID,
			Name:        p.Name,
			CorrectSuit: p.Suit,
			Guess:       guess,
			Reason:      reason,
			Round:       r.currentRound,
		})
	}

	r.broadcastLocked(protocol.NewGuessResults(incorrect))
	r.logger.Infof("round %d resolved, %d eliminated", r.currentRound, len(incorrect))

	if r.checkGameOverLocked() {
		return
	}

	r.startNewRoundLocked()
	r.persistLocked()
}

// checkGameOverLocked applies the win conditions to the living players
// and finishes the game when one holds.
func (r *Room) checkGameOverLocked() bool {
	living := r.livingLocked()

	jackAlive := false
	for _, p := range living {
		if p.IsJack {
			jackAlive = true
		}
	}

	switch {
	case len(living) == 0:
		r.gameOverLocked(WinnerDraw, emoji.Handshake.String()+" Draw! All players have been eliminated!")
	case !jackAlive:
		r.gameOverLocked(WinnerOtherPlayers, emoji.BrokenHeart.String()+" The Jack of Hearts is dead! The other players win!")
	case len(living) == 1 && living[0].IsJack:
		r.gameOverLocked(WinnerJackOfHearts, emoji.Crown.String()+" The Jack of Hearts wins - he is the last one standing!")
	case len(living) == 1:
		r.gameOverLocked(WinnerLastPlayer, fmt.Sprintf("%s Winner: %s!", emoji.Trophy.String(), living[0].Name))
	default:
		return false
	}

	return true
}

func (r *Room) gameOverLocked(winner, message string) {
	r.phase = PhaseFinished
	r.cancelCountdownLocked()
	r.broadcastLocked(protocol.NewGameOver(winner, message))
	r.logger.Infof("game over: %s", winner)

	if r.config.Done != nil {
		state := r.snapshotLocked()
		go r.config.Done(state)
	}
}

// startNewRoundLocked re-deals the living players from a fresh deck,
// reassigns the role if its holder fell, and opens the next discussion.
func (r *Room) startNewRoundLocked() {
	deck := BuildDeck(r.config.Suits, r.config.Ranks)
	Shuffle(deck)

	living := r.livingLocked()
	for i, p := range living {
		p.Suit = deck[i].Suit
		p.Rank = deck[i].Rank
	}

	r.assignJackLocked()

	for _, viewer := range r.players {
		r.sendLocked(viewer, protocol.NewPlayersInfo(r.viewLocked(viewer)))
	}

	r.currentRound++
	r.phase = PhaseDiscussion
	r.discussionTimeLeft = r.config.DiscussionTime

	for _, viewer := range r.players {
		r.sendLocked(viewer, protocol.NewRoundStarted(r.currentRound, r.viewLocked(viewer), r.config.DiscussionTime))
	}

	r.startCountdownLocked(r.discussionTick)
}

// Disconnect detaches the player's connection. During active play a
// living player is eliminated by the drop and the room is told; the
// player record itself always stays.
func (r *Room) Disconnect(playerID string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	p := r.findByIDLocked(playerID)
	if p == nil {
		return
	}

	p.conn = nil
	p.Disconnected = true
	r.logger.Infof("player %s disconnected", p.Name)

	if !p.Alive || r.phase == PhaseWaiting || r.phase == PhaseFinished {
		r.persistLocked()
		return
	}

	p.Alive = false
	r.eliminated = append(r.eliminated, model.Elimination{
		ID:          p.ID,
		Name:        p.Name,
		CorrectSuit: p.Suit,
		Reason:      reasonDisconnect,
		Round:       r.currentRound,
	})

	r.broadcastLocked(protocol.NewPlayerDisconnected(p.Name))
	for _, viewer := range r.players {
		r.sendLocked(viewer, protocol.NewPlayersInfo(r.viewLocked(viewer)))
	}

	if r.phase == PhaseGuessing && r.allSubmittedLocked() {
		r.cancelCountdownLocked()
		r.resolveRoundLocked()
	}

	r.persistLocked()
}

// Chat relays an open table message to the whole room.
func (r *Room) Chat(playerID, playerName, message string) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	r.broadcastLocked(protocol.NewChatMessage(playerID, playerName, message))
}

// PrivateChat delivers a whisper; both sides must be alive.
func (r *Room) PrivateChat(fromID, targetID, message string) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	from := r.findByIDLocked(fromID)
	to := r.findByIDLocked(targetID)
	if from == nil || to == nil {
		r.logger.Debugf("private message dropped: unknown sender or recipient")
		return
	}
	if !from.Alive || !to.Alive {
		r.logger.Debugf("private message dropped: sender or recipient is not alive")
		return
	}

	r.sendLocked(to, protocol.NewPrivateChatMessage(from.ID, from.Name, message, time.Now().Format("15:04:05")))
}

// sendLocked is best-effort: unreachable players are skipped and one
// failed delivery never aborts the rest.
func (r *Room) sendLocked(p *Player, v interface{}) {
	if p.conn == nil || p.Disconnected {
		return
	}
	if err := p.conn.Send(v); err != nil {
		r.logger.Errorf("send to player %s: %v", p.Name, err)
	}
}

func (r *Room) broadcastLocked(v interface{}) {
	for _, p := range r.players {
		r.sendLocked(p, v)
	}
}

func (r *Room) persistLocked() {
	if r.config.Persist == nil {
		return
	}
	r.config.Persist(r.snapshotLocked())
}
