// Package i18n holds the user-facing copy. Korean is the default, English is offered to browsers
// that ask for it.
package i18n

import (
	"context"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MsgSubscribeSuccess          = "subscribe.success"
	MsgSubscribeTestMode         = "subscribe.test_mode"
	MsgSubscribeNameRequired     = "subscribe.name_required"
	MsgSubscribeInvalidEmail     = "subscribe.invalid_email"
	MsgSubscribeServerError      = "subscribe.server_error"
	MsgSubscribeMethodNotAllowed = "subscribe.method_not_allowed"
	MsgEmailSubject              = "email.subject"
	MsgEmailGreeting             = "email.greeting"
	MsgShareTitle                = "share.title"
	MsgShareText                 = "share.text"
	MsgShareCopied               = "share.copied"
)

var supported = []language.Tag{language.Korean, language.English}

var matcher = language.NewMatcher(supported)

type contextKey string

const languageContextKey = contextKey("language")

func init() {
	ko := language.Korean
	set(ko, MsgSubscribeSuccess, "출간 알림 신청이 완료되었습니다!")
	set(ko, MsgSubscribeTestMode,
		"📧 이메일이 등록되었습니다. (테스트 모드: API 키를 설정하면 실제 이메일이 발송됩니다)")
	set(ko, MsgSubscribeNameRequired, "이름을 입력해주세요.")
	set(ko, MsgSubscribeInvalidEmail, "유효한 이메일을 입력해주세요.")
	set(ko, MsgSubscribeServerError, "서버 오류가 발생했습니다.")
	set(ko, MsgSubscribeMethodNotAllowed, "허용되지 않은 요청 방식입니다.")
	set(ko, MsgEmailSubject, "신태순 작가 신간 출간 알림 신청 완료")
	set(ko, MsgEmailGreeting, "안녕하세요, %s님!")
	set(ko, MsgShareTitle, "CEO Business Tarot - 사장님을 위한 타로")
	set(ko, MsgShareText, "경영 고민을 타로 카드로 풀어보세요. 신태순 작가의 진심어린 조언과 함께합니다.")
	set(ko, MsgShareCopied, "링크가 복사되었습니다! 친구에게 공유해보세요.")

	en := language.English
	set(en, MsgSubscribeSuccess, "You're on the list for the book launch!")
	set(en, MsgSubscribeTestMode,
		"📧 Your email was registered. (Test mode: configure the API keys to send real emails)")
	set(en, MsgSubscribeNameRequired, "Please enter your name.")
	set(en, MsgSubscribeInvalidEmail, "Please enter a valid email address.")
	set(en, MsgSubscribeServerError, "Something went wrong on our side.")
	set(en, MsgSubscribeMethodNotAllowed, "Method not allowed")
	set(en, MsgEmailSubject, "You're subscribed to the new book announcement")
	set(en, MsgEmailGreeting, "Hello, %s!")
	set(en, MsgShareTitle, "CEO Business Tarot")
	set(en, MsgShareText, "Untangle your business worries with a tarot card and honest advice.")
	set(en, MsgShareCopied, "Link copied! Share it with a friend.")
}

func set(tag language.Tag, key, msg string) {
	if err := message.SetString(tag, key, msg); err != nil {
		panic(err)
	}
}

// Match picks the supported language for an Accept-Language header value. Unknown or malformed
// values fall back to Korean.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[idx]
}

// WithLanguage stores the visitor's language in ctx.
func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, languageContextKey, tag)
}

// Language returns the language stored with [WithLanguage], or Korean.
func Language(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(languageContextKey).(language.Tag); ok {
		return tag
	}
	return supported[0]
}

// Printer returns a message printer for the language in ctx.
func Printer(ctx context.Context) *message.Printer {
	return message.NewPrinter(Language(ctx))
}

// T translates key for the language in ctx.
func T(ctx context.Context, key string, args ...any) string {
	return Printer(ctx).Sprintf(key, args...)
}
