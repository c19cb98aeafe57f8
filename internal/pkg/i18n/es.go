package i18n

var spanish = [msgCount]string{
	MsgSubscribeCheckInbox:      "¡Gracias! Revisa tu bandeja de entrada para confirmar tu suscripción.",
	MsgSubscribeAlreadyActive:   "Este correo ya está suscrito a nuestro boletín.",
	MsgSubscribeResent:          "Te reenviamos el correo de confirmación. Revisa tu bandeja de entrada.",
	MsgSubscribeInvalidEmail:    "El correo electrónico no es válido.",
	MsgSubscribeInvalidLanguage: "El idioma seleccionado no es válido.",
	MsgSubscribeBusy:            "Tu solicitud está en proceso, inténtalo de nuevo en un momento.",

	MsgServerError:      "Ocurrió un error en el servidor. Inténtalo más tarde.",
	MsgMethodNotAllowed: "Método no permitido.",
	MsgTooManyRequests:  "Demasiadas solicitudes, espera un momento.",
	MsgMaintenance:      "El sitio está en mantenimiento. Vuelve pronto.",

	MsgContactSent:          "Tu mensaje fue enviado. Nos pondremos en contacto contigo pronto.",
	MsgContactMissingFields: "Faltan campos obligatorios: %s",
	MsgContactInvalidEmail:  "El formato del correo electrónico no es válido.",
	MsgContactSendFailed:    "No pudimos enviar tu mensaje. Inténtalo más tarde.",

	MsgCatalogSent: "Te enviamos el enlace de descarga del catálogo por correo.",

	MsgPageBackHome:                "Volver al inicio",
	MsgPageMissingTokenTitle:       "Enlace incompleto",
	MsgPageMissingTokenBody:        "Al enlace le falta el código de verificación.",
	MsgPageInvalidLinkTitle:        "Enlace no válido",
	MsgPageInvalidLinkBody:         "Este enlace no es válido o ya expiró.",
	MsgPageErrorTitle:              "Algo salió mal",
	MsgPageErrorBody:               "No pudimos procesar tu solicitud. Inténtalo más tarde.",
	MsgPageConfirmSuccessTitle:     "¡Suscripción confirmada!",
	MsgPageConfirmSuccessBody:      "Gracias por confirmar. Recibirás nuestras novedades en tu correo.",
	MsgPageConfirmAlreadyTitle:     "Suscripción ya confirmada",
	MsgPageConfirmAlreadyBody:      "Tu suscripción ya estaba confirmada.",
	MsgPageUnsubscribeTitle:        "Cancelar suscripción",
	MsgPageUnsubscribeQuestion:     "¿Seguro que quieres dejar de recibir el boletín en %s?",
	MsgPageUnsubscribeButton:       "Sí, cancelar mi suscripción",
	MsgPageUnsubscribeSuccessTitle: "Suscripción cancelada",
	MsgPageUnsubscribeSuccessBody:  "Ya no recibirás nuestro boletín. Puedes volver a suscribirte cuando quieras.",
	MsgPageUnsubscribeAlreadyTitle: "Ya no estás suscrito",
	MsgPageUnsubscribeAlreadyBody:  "Este correo ya había cancelado su suscripción.",

	MsgEmailConfirmSubject:  "Confirma tu suscripción",
	MsgEmailConfirmHeading:  "Confirma tu suscripción",
	MsgEmailConfirmBody:     "Gracias por suscribirte a nuestro boletín. Haz clic en el botón para confirmar tu correo.",
	MsgEmailConfirmButton:   "Confirmar suscripción",
	MsgEmailConfirmIgnore:   "Si no solicitaste esta suscripción, ignora este correo.",
	MsgEmailWelcomeSubject:  "¡Bienvenido a nuestro boletín!",
	MsgEmailWelcomeHeading:  "¡Bienvenido!",
	MsgEmailWelcomeBody:     "Tu suscripción está activa. Te compartiremos artículos técnicos, novedades de productos y promociones.",
	MsgEmailUnsubscribeLink: "Cancelar suscripción",
	MsgEmailBlogSubject:     "Nuevo artículo: %s",
	MsgEmailBlogIntro:       "Publicamos un nuevo artículo en nuestro blog:",
	MsgEmailBlogReadMore:    "Leer artículo",

	MsgEmailContactInternalSubject: "Nuevo contacto desde el sitio: %s",
	MsgEmailContactInternalHeading: "Nuevo mensaje del formulario de contacto",
	MsgEmailContactClientSubject:   "Recibimos tu mensaje",
	MsgEmailContactClientHeading:   "Hola %s, gracias por escribirnos",
	MsgEmailContactClientBody:      "Recibimos tu mensaje y un asesor se comunicará contigo a la brevedad.",
	MsgEmailContactClientSummary:   "Resumen de tu mensaje:",

	MsgEmailCatalogSubject: "Tu catálogo de productos",
	MsgEmailCatalogBody:    "Hola %s, aquí tienes el enlace para descargar nuestro catálogo de productos.",
	MsgEmailCatalogButton:  "Descargar catálogo",
	MsgEmailCatalogExpiry:  "El enlace estará disponible durante %d horas.",

	MsgEmailFooter: "Este correo fue enviado automáticamente, por favor no respondas a esta dirección.",

	MsgFieldName:         "Nombre",
	MsgFieldEmail:        "Correo electrónico",
	MsgFieldPhone:        "Teléfono",
	MsgFieldState:        "Estado",
	MsgFieldMunicipality: "Municipio",
	MsgFieldCompany:      "Empresa",
	MsgFieldPosition:     "Puesto",
	MsgFieldIndustry:     "Industria",
	MsgFieldMessage:      "Mensaje",
	MsgFieldLanguage:     "Idioma",
}
