package util

import "errors"

var (
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrNotApprovedDeveloper = errors.New("developer account not approved")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrInvalidState         = errors.New("action not allowed in current status")
	ErrDraftLimit           = errors.New("3 drafts already in progress")
	ErrDailyCreateLimit     = errors.New("daily submission limit reached (max 1)")
	ErrPayloadIncomplete    = errors.New("payload fails required-field checks")
)
