package constants

// Centralized constants for env keys, routes and the narrator integration.
const (
	// Environment variable keys
	EnvServerAddress  = "MEOWVENTURE_ADDR"
	EnvCatalogPath    = "MEOWVENTURE_CATALOG"
	EnvDatabasePath   = "MEOWVENTURE_DB"
	EnvNarratorAPIKey = "NARRATOR_API_KEY"
	EnvNarratorURL    = "NARRATOR_URL"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Narrator model parameters
	NarratorModelDefault     = "gpt2-medium"
	NarratorMaxLengthDefault = 150
)

// Routes used by the backend router
const (
	RouteAPIPrefix    = "/api"
	RouteCats         = "/cats"
	RouteAbilities    = "/abilities"
	RouteBattles      = "/battles"
	RouteBattleByID   = "/battles/:battleID"
	RouteBattleTurn   = "/battles/:battleID/turn"
	RouteBattleCancel = "/battles/:battleID/cancel"
	RouteSummon       = "/summons/:poolID"
	RouteSummonMulti  = "/summons/:poolID/multi"
	RouteRoster       = "/players/:playerID/roster"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrBattleNotFound     = "Battle not found"
	ErrFailedCreateBattle = "Failed to create battle"
	ErrFailedProcessTurn  = "Failed to process turn"
	ErrFailedCancelBattle = "Failed to cancel battle"
	ErrFailedEndBattle    = "Failed to end battle"
	ErrFailedDrawSummon   = "Failed to draw summon"
	ErrFailedFetchRoster  = "Failed to fetch roster"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldCatID    = "cat_id"
	LogFieldPoolID   = "pool_id"
	LogFieldPlayerID = "player_id"
	LogFieldRound    = "round"
	LogFieldWinner   = "winner"
	LogFieldAddr     = "addr"
)
