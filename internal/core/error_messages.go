package core

// error_messages.go maps technical errors to user-friendly messages with a
// support code. Users can quote the code; support staff look it up below.
//
// # Table Errors (TBL)
//
//	TBL001 - Table not found          (ErrNotFound)
//	TBL002 - Invalid table data       (ErrInvalidInput)
//	TBL003 - Position out of range    (ErrIndexOutOfRange)
//
// # Import Errors (IMP)
//
//	IMP001 - No data found            (ErrEmptyData)
//	IMP002 - System busy              (ErrTooManyImports)
//	IMP003 - File too large           (ErrFileTooLarge)
//	IMP004 - Sheet not found          "sheet not found"
//	IMP005 - Sheet access denied      "sheet access denied"
//	IMP006 - Unsupported file         "unsupported file type"
//	IMP007 - Invalid CSV              "parse csv"
//	IMP008 - Invalid workbook         "open workbook"
//	IMP009 - Sheets not configured    "google sheets is not configured"
//
// # Auth Errors (AUTH)
//
//	AUTH001 - Invalid credentials     "invalid email or password"
//	AUTH002 - Account exists          "user already exists"
//	AUTH003 - Not logged in           "missing token"
//	AUTH004 - Session expired         "invalid or expired token"
//	AUTH005 - Bad registration        "invalid registration"
//
// # Database Errors (DB)
//
//	DB001 - Connection refused        "connection refused"
//	DB002 - Connection reset          "connection reset"
//	DB003 - Timeout                   "deadline exceeded", "timeout"
//
// # Other
//
//	RATE001 - Rate limited            "rate limit"
//	ERR000  - Unknown error           (fallback)
//
// Sentinel errors are matched with errors.Is first. Errors from other
// packages are then matched case-insensitively by substring; the first
// matching pattern wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrNotFound, UserMessage{
		Message: "Table not found",
		Action:  "It may have been deleted. Refresh your table list",
		Code:    "TBL001",
	}},
	{ErrInvalidInput, UserMessage{
		Message: "Invalid table data",
		Action:  "Give the table a name and at least one named column",
		Code:    "TBL002",
	}},
	{ErrIndexOutOfRange, UserMessage{
		Message: "That row or column does not exist",
		Action:  "Reload the table and try again",
		Code:    "TBL003",
	}},
	{ErrEmptyData, UserMessage{
		Message: "No data found in sheet",
		Action:  "Make sure the first sheet has a header row",
		Code:    "IMP001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files",
		Code:    "IMP003",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"sheet not found", UserMessage{
		Message: "Google Sheet not found",
		Action:  "Check the sheet ID and that the sheet is shared with the service account",
		Code:    "IMP004",
	}},
	{"sheet access denied", UserMessage{
		Message: "Access denied to Google Sheet",
		Action:  "Share the sheet with the service account email",
		Code:    "IMP005",
	}},
	{"unsupported file type", UserMessage{
		Message: "Unsupported file type",
		Action:  "Upload a .csv or .xlsx file",
		Code:    "IMP006",
	}},
	{"parse csv", UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure the file is comma-separated with quoted fields closed",
		Code:    "IMP007",
	}},
	{"open workbook", UserMessage{
		Message: "File is not a valid Excel workbook",
		Action:  "Save the file as .xlsx and try again",
		Code:    "IMP008",
	}},
	{"google sheets is not configured", UserMessage{
		Message: "Google Sheets import is not available",
		Action:  "Ask an administrator to configure Google credentials",
		Code:    "IMP009",
	}},
	{"invalid email or password", UserMessage{
		Message: "Invalid email or password",
		Action:  "Check your credentials and try again",
		Code:    "AUTH001",
	}},
	{"user already exists", UserMessage{
		Message: "An account with this email already exists",
		Action:  "Log in instead",
		Code:    "AUTH002",
	}},
	{"missing token", UserMessage{
		Message: "You are not logged in",
		Action:  "Log in and try again",
		Code:    "AUTH003",
	}},
	{"invalid or expired token", UserMessage{
		Message: "Your session has expired",
		Action:  "Log in again",
		Code:    "AUTH004",
	}},
	{"invalid registration", UserMessage{
		Message: "Enter a valid email and a password of at least 8 characters",
		Action:  "Correct the form and submit again",
		Code:    "AUTH005",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB001",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB002",
	}},
	{"deadline exceeded", UserMessage{
		Message: "Operation timed out",
		Action:  "Try again later",
		Code:    "DB003",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try again later",
		Code:    "DB003",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
