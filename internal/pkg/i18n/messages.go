package i18n

// MsgID identifies one translatable message.
type MsgID int

const (
	// newsletter API
	MsgSubscribeCheckInbox MsgID = iota
	MsgSubscribeAlreadyActive
	MsgSubscribeResent
	MsgSubscribeInvalidEmail
	MsgSubscribeInvalidLanguage
	MsgSubscribeBusy

	// shared API
	MsgServerError
	MsgMethodNotAllowed
	MsgTooManyRequests
	MsgMaintenance

	// contact API
	MsgContactSent
	MsgContactMissingFields
	MsgContactInvalidEmail
	MsgContactSendFailed

	// catalog API
	MsgCatalogSent

	// confirm / unsubscribe pages
	MsgPageBackHome
	MsgPageMissingTokenTitle
	MsgPageMissingTokenBody
	MsgPageInvalidLinkTitle
	MsgPageInvalidLinkBody
	MsgPageErrorTitle
	MsgPageErrorBody
	MsgPageConfirmSuccessTitle
	MsgPageConfirmSuccessBody
	MsgPageConfirmAlreadyTitle
	MsgPageConfirmAlreadyBody
	MsgPageUnsubscribeTitle
	MsgPageUnsubscribeQuestion
	MsgPageUnsubscribeButton
	MsgPageUnsubscribeSuccessTitle
	MsgPageUnsubscribeSuccessBody
	MsgPageUnsubscribeAlreadyTitle
	MsgPageUnsubscribeAlreadyBody

	// email: newsletter
	MsgEmailConfirmSubject
	MsgEmailConfirmHeading
	MsgEmailConfirmBody
	MsgEmailConfirmButton
	MsgEmailConfirmIgnore
	MsgEmailWelcomeSubject
	MsgEmailWelcomeHeading
	MsgEmailWelcomeBody
	MsgEmailUnsubscribeLink
	MsgEmailBlogSubject
	MsgEmailBlogIntro
	MsgEmailBlogReadMore

	// email: contact
	MsgEmailContactInternalSubject
	MsgEmailContactInternalHeading
	MsgEmailContactClientSubject
	MsgEmailContactClientHeading
	MsgEmailContactClientBody
	MsgEmailContactClientSummary

	// email: catalog
	MsgEmailCatalogSubject
	MsgEmailCatalogBody
	MsgEmailCatalogButton
	MsgEmailCatalogExpiry

	// shared email chrome
	MsgEmailFooter

	// form field labels
	MsgFieldName
	MsgFieldEmail
	MsgFieldPhone
	MsgFieldState
	MsgFieldMunicipality
	MsgFieldCompany
	MsgFieldPosition
	MsgFieldIndustry
	MsgFieldMessage
	MsgFieldLanguage

	msgCount
)
