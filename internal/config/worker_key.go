package config

type WorkerKeyStruct struct {
	PersistResponsesQueue string
	OfferEmailsQueue      string
}

var WorkerKey = &WorkerKeyStruct{
	PersistResponsesQueue: "persist_responses_queue",
	OfferEmailsQueue:      "offer_emails_queue",
}
