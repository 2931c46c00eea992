package config

import "time"

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies outgoing HTTP requests (vCard imports).
var UserAgent = "Go-Birthday-Server/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Birthday Server"
	AppID          = "com.github.tartampluch.go-birthday-server"
	KeyringService = "com.github.tartampluch.go-birthday-server"
	EnvPrefix      = "BIRTHDAY_"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultAddress  = ":3001"
	DefaultLanguage = "en"
	DefaultLeapYear = 2000 // Leap year fallback for dates like --02-29
	UIDSalt         = "go-birthday-server-v1-"
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
)

// SupportedLanguages defines the list of available message languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Birthday Server//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gobirthday"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY  = "BDAY"
	VCardFN    = "FN"
	VCardN     = "N"
	VCardEmail = "EMAIL"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events
	// are found. Clients flag an empty feed as invalid otherwise.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted for birth dates (API payloads and vCard BDAY fields)
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB vCard import ceiling
	MaxRequestBodySize  = 1 * 1024 * 1024  // 1MB JSON payload ceiling
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout        = 30 * time.Second
	GiftTimeout        = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	SchemeHTTP         = "http"
	SchemeHTTPS        = "https"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderETag         = "ETag"
	HeaderLastModified = "Last-Modified"
	HeaderXContentType = "X-Content-Type-Options"
	HeaderUserAgent    = "User-Agent"
	HeaderIfNoneMatch  = "If-None-Match"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeApplicationJSON = "application/json; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

const (
	RouteRoot      = "GET /{$}"
	RouteList      = "GET /api/birthdays"
	RouteCreate    = "POST /api/birthdays"
	RouteSendEmail = "POST /api/birthdays/send-email"
	RouteDelete    = "DELETE /api/birthdays/{id}"
	RouteCalendar  = "GET /api/birthdays/calendar.ics"
	RouteImport    = "POST /api/birthdays/import"

	PathParamID   = "id"
	QuerySort     = "sort"
	SortUpcoming  = "upcoming"
	FormFieldVCF  = "file"
	MultipartMeta = "multipart/form-data"
)

// -----------------------------------------------------------------------------
// Gift Suggestions
// -----------------------------------------------------------------------------

const (
	// GiftFallback substitutes the suggestion text whenever the provider
	// fails. Record creation must still succeed with this value.
	GiftFallback = "Unable to generate gift suggestions at this time."
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyMailSubject     = "mail_subject"
	TKeyMailBody        = "mail_body"
	TKeyEvtSummary      = "event_summary"
	TKeyEvtSummaryAge   = "event_summary_age"
	TKeyEvtSummaryBirth = "event_summary_birth"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrAddressRequired = "server address is required"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// HTTP Response Messages
// -----------------------------------------------------------------------------

const (
	HTTPMsgRunning       = "Birthday reminder backend is running"
	HTTPMsgInternalErr   = "Internal Server Error"
	HTTPMsgNameRequired  = "name is required"
	HTTPMsgDateRequired  = "date is required"
	HTTPMsgDateInvalid   = "date is invalid"
	HTTPMsgEmailRequired = "Email is required"
	HTTPMsgEmailSent     = "Email sent successfully!"
	HTTPMsgEmailFailed   = "Error sending email"
	HTTPMsgDeleted       = "Deleted successfully"
	HTTPMsgAddFailed     = "Failed to add birthday"
	HTTPMsgBadPayload    = "invalid request payload"
	HTTPMsgImportFailed  = "Failed to import birthdays"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgStoreReady    = "Birthday store initialized"
	MsgRecordCreated = "Birthday record created"
	MsgRecordDeleted = "Birthday record deleted"
	MsgGiftFallback  = "Gift suggestion failed, using fallback"
	MsgGiftGenerated = "Gift suggestions generated"
	MsgMailSent      = "Birthday email sent"
	MsgMailFailed    = "Birthday email delivery failed"
	MsgBdayToday     = "Birthday today"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgImportDone    = "vCard import finished"
	MsgCalendarBuilt = "Calendar feed generated"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFromRing  = "SMTP password resolved from OS keyring"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgPanicRecover  = "Recovered from handler panic"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Birthday: %s"
	FallbackName    = "Unknown"

	FallbackMailSubject = "Happy Birthday!"
	FallbackMailBody    = "Dear %s,\n\nWishing you a wonderful birthday filled with happiness and surprises!\n\n- Birthday Reminder"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyAddress   = "address"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyID        = "id"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyEmail     = "email"
	LogKeyAge       = "age"
	LogKeyDays      = "days_remaining"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeySkipped   = "cards_skipped"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain    = "main"
	CompServer  = "server"
	CompEngine  = "engine"
	CompStore   = "store"
	CompGift    = "gift"
	CompMail    = "mail"
	CompFetcher = "fetcher"
	CompI18n    = "i18n"
)
