package i18n

var english = [msgCount]string{
	MsgSubscribeCheckInbox:      "Thank you! Check your inbox to confirm your subscription.",
	MsgSubscribeAlreadyActive:   "This email is already subscribed to our newsletter.",
	MsgSubscribeResent:          "We resent the confirmation email. Please check your inbox.",
	MsgSubscribeInvalidEmail:    "The email address is not valid.",
	MsgSubscribeInvalidLanguage: "The selected language is not valid.",
	MsgSubscribeBusy:            "Your request is being processed, please try again in a moment.",

	MsgServerError:      "A server error occurred. Please try again later.",
	MsgMethodNotAllowed: "Method not allowed.",
	MsgTooManyRequests:  "Too many requests, please wait a moment.",
	MsgMaintenance:      "The site is under maintenance. Please come back soon.",

	MsgContactSent:          "Your message was sent. We will get back to you soon.",
	MsgContactMissingFields: "Missing required fields: %s",
	MsgContactInvalidEmail:  "The email format is not valid.",
	MsgContactSendFailed:    "We could not send your message. Please try again later.",

	MsgCatalogSent: "We emailed you the catalog download link.",

	MsgPageBackHome:                "Back to home",
	MsgPageMissingTokenTitle:       "Incomplete link",
	MsgPageMissingTokenBody:        "The link is missing its verification code.",
	MsgPageInvalidLinkTitle:        "Invalid link",
	MsgPageInvalidLinkBody:         "This link is not valid or has expired.",
	MsgPageErrorTitle:              "Something went wrong",
	MsgPageErrorBody:               "We could not process your request. Please try again later.",
	MsgPageConfirmSuccessTitle:     "Subscription confirmed!",
	MsgPageConfirmSuccessBody:      "Thanks for confirming. You will receive our news in your inbox.",
	MsgPageConfirmAlreadyTitle:     "Subscription already confirmed",
	MsgPageConfirmAlreadyBody:      "Your subscription was already confirmed.",
	MsgPageUnsubscribeTitle:        "Unsubscribe",
	MsgPageUnsubscribeQuestion:     "Are you sure you want to stop receiving the newsletter at %s?",
	MsgPageUnsubscribeButton:       "Yes, unsubscribe me",
	MsgPageUnsubscribeSuccessTitle: "You have been unsubscribed",
	MsgPageUnsubscribeSuccessBody:  "You will no longer receive our newsletter. You can subscribe again at any time.",
	MsgPageUnsubscribeAlreadyTitle: "Already unsubscribed",
	MsgPageUnsubscribeAlreadyBody:  "This email had already been unsubscribed.",

	MsgEmailConfirmSubject:  "Confirm your subscription",
	MsgEmailConfirmHeading:  "Confirm your subscription",
	MsgEmailConfirmBody:     "Thanks for subscribing to our newsletter. Click the button to confirm your email.",
	MsgEmailConfirmButton:   "Confirm subscription",
	MsgEmailConfirmIgnore:   "If you did not request this subscription, please ignore this email.",
	MsgEmailWelcomeSubject:  "Welcome to our newsletter!",
	MsgEmailWelcomeHeading:  "Welcome!",
	MsgEmailWelcomeBody:     "Your subscription is active. We will share technical articles, product news and promotions.",
	MsgEmailUnsubscribeLink: "Unsubscribe",
	MsgEmailBlogSubject:     "New article: %s",
	MsgEmailBlogIntro:       "We just published a new article on our blog:",
	MsgEmailBlogReadMore:    "Read article",

	MsgEmailContactInternalSubject: "New website contact: %s",
	MsgEmailContactInternalHeading: "New message from the contact form",
	MsgEmailContactClientSubject:   "We received your message",
	MsgEmailContactClientHeading:   "Hi %s, thanks for reaching out",
	MsgEmailContactClientBody:      "We received your message and a sales representative will contact you shortly.",
	MsgEmailContactClientSummary:   "Summary of your message:",

	MsgEmailCatalogSubject: "Your product catalog",
	MsgEmailCatalogBody:    "Hi %s, here is the link to download our product catalog.",
	MsgEmailCatalogButton:  "Download catalog",
	MsgEmailCatalogExpiry:  "The link will be available for %d hours.",

	MsgEmailFooter: "This email was sent automatically, please do not reply to this address.",

	MsgFieldName:         "Name",
	MsgFieldEmail:        "Email",
	MsgFieldPhone:        "Phone",
	MsgFieldState:        "State",
	MsgFieldMunicipality: "Municipality",
	MsgFieldCompany:      "Company",
	MsgFieldPosition:     "Position",
	MsgFieldIndustry:     "Industry",
	MsgFieldMessage:      "Message",
	MsgFieldLanguage:     "Language",
}
