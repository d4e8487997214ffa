package common

// SessionCookieName is the cookie that carries the signed session token
// between the browser and the journal server.
const SessionCookieName = "journal_session"

// DateLayout is the calendar-date format used for entry dates everywhere
// outside the storage layer.
const DateLayout = "2006-01-02"
