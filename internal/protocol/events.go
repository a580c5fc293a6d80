package protocol

// Server event types as they appear on the wire.
const (
	TypeError                = "error"
	TypeJoinedRoom           = "joinedRoom"
	TypeRoomList             = "roomList"
	TypeGameStarted          = "gameStarted"
	TypePlayersInfo          = "playersInfo"
	TypeRoundStarted         = "roundStarted"
	TypeTimerUpdate          = "timerUpdate"
	TypeGuessingPhaseStarted = "guessingPhaseStarted"
	TypeGuessSubmitted       = "guessSubmitted"
	TypeGuessResults         = "guessResults"
	TypeGameOver             = "gameOver"
	TypePlayerDisconnected   = "playerDisconnected"
)

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: TypeError, Message: message}
}

type JoinedRoom struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func NewJoinedRoom(playerID, playerName string) JoinedRoom {
	return JoinedRoom{Type: TypeJoinedRoom, PlayerID: playerID, PlayerName: playerName}
}

type RoomSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Players        int    `json:"players"`
	MaxPlayers     int    `json:"maxPlayers"`
	HasPassword    bool   `json:"hasPassword"`
	MinPlayers     int    `json:"minPlayers"`
	DiscussionTime int    `json:"discussionTime"`
	GuessingTime   int    `json:"guessingTime"`
}

type RoomList struct {
	Type  string        `json:"type"`
	Rooms []RoomSummary `json:"rooms"`
}

func NewRoomList(rooms []RoomSummary) RoomList {
	return RoomList{Type: TypeRoomList, Rooms: rooms}
}

// PlayerInfo is one player's card as seen by a particular viewer. The
// viewer's own suit is masked and the jack flag is always false on the
// wire: the special role is never revealed during play.
type PlayerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Card       string `json:"card"`
	SuitSymbol string `json:"suitSymbol"`
	IsAlive    bool   `json:"isAlive"`
	IsJack     bool   `json:"isJackOfHearts"`
}

type OwnCard struct {
	ID     string `json:"id"`
	Rank   string `json:"rank"`
	IsJack bool   `json:"isJackOfHearts"`
}

type GameStarted struct {
	Type         string       `json:"type"`
	PlayerData   OwnCard      `json:"playerData"`
	OtherPlayers []PlayerInfo `json:"otherPlayers"`
}

func NewGameStarted(own OwnCard, others []PlayerInfo) GameStarted {
	return GameStarted{Type: TypeGameStarted, PlayerData: own, OtherPlayers: others}
}

type PlayersInfo struct {
	Type    string       `json:"type"`
	Players []PlayerInfo `json:"players"`
}

func NewPlayersInfo(players []PlayerInfo) PlayersInfo {
	return PlayersInfo{Type: TypePlayersInfo, Players: players}
}

type RoundStarted struct {
	Type           string       `json:"type"`
	Round          int          `json:"round"`
	Players        []PlayerInfo `json:"players"`
	DiscussionTime int          `json:"discussionTime"`
}

func NewRoundStarted(round int, players []PlayerInfo, discussionTime int) RoundStarted {
	return RoundStarted{Type: TypeRoundStarted, Round: round, Players: players, DiscussionTime: discussionTime}
}

type TimerUpdate struct {
	Type           string `json:"type"`
	Phase          string `json:"phase"`
	TimeLeft       int    `json:"timeLeft"`
	DiscussionTime int    `json:"discussionTime,omitempty"`
	GuessingTime   int    `json:"guessingTime,omitempty"`
}

func NewDiscussionTimerUpdate(timeLeft, discussionTime int) TimerUpdate {
	return TimerUpdate{Type: TypeTimerUpdate, Phase: "discussion", TimeLeft: timeLeft, DiscussionTime: discussionTime}
}

func NewGuessingTimerUpdate(timeLeft, guessingTime int) TimerUpdate {
	return TimerUpdate{Type: TypeTimerUpdate, Phase: "guessing", TimeLeft: timeLeft, GuessingTime: guessingTime}
}

type GuessingPhaseStarted struct {
	Type string `json:"type"`
}

func NewGuessingPhaseStarted() GuessingPhaseStarted {
	return GuessingPhaseStarted{Type: TypeGuessingPhaseStarted}
}

type GuessSubmitted struct {
	Type string `json:"type"`
	Suit string `json:"suit"`
}

func NewGuessSubmitted(suit string) GuessSubmitted {
	return GuessSubmitted{Type: TypeGuessSubmitted, Suit: suit}
}

type EliminatedPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CorrectSuit string `json:"correctSuit"`
	Guess       string `json:"guess"`
}

type GuessResults struct {
	Type             string             `json:"type"`
	IncorrectGuesses []EliminatedPlayer `json:"incorrectGuesses"`
}

func NewGuessResults(incorrect []EliminatedPlayer) GuessResults {
	return GuessResults{Type: TypeGuessResults, IncorrectGuesses: incorrect}
}

type GameOver struct {
	Type    string `json:"type"`
	Winner  string `json:"winner"`
	Message string `json:"message"`
}

func NewGameOver(winner, message string) GameOver {
	return GameOver{Type: TypeGameOver, Winner: winner, Message: message}
}

type PlayerDisconnected struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName"`
}

func NewPlayerDisconnected(playerName string) PlayerDisconnected {
	return PlayerDisconnected{Type: TypePlayerDisconnected, PlayerName: playerName}
}

type ChatMessage struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

func NewChatMessage(playerID, playerName, message string) ChatMessage {
	return ChatMessage{Type: TypeChatMessage, PlayerID: playerID, PlayerName: playerName, Message: message}
}

type PrivateChatMessage struct {
	Type           string `json:"type"`
	FromPlayerID   string `json:"fromPlayerId"`
	FromPlayerName string `json:"fromPlayerName"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
}

func NewPrivateChatMessage(fromID, fromName, message, timestamp string) PrivateChatMessage {
	return PrivateChatMessage{
		Type:           TypePrivateChatMessage,
		FromPlayerID:   fromID,
		FromPlayerName: fromName,
		Message:        message,
		Timestamp:      timestamp,
	}
}
