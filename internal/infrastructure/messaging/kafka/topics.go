package kafka

// Topic names for the transfer/recovery lifecycle.
const (
	TopicTransfersStarted   = "ledger.transfers.started"
	TopicTransfersCompleted = "ledger.transfers.completed"
	TopicTransfersRecovered = "ledger.transfers.recovered"
	TopicTransfersCanceled  = "ledger.transfers.canceled"
)

// GetAllTopics returns list of all topics.
func GetAllTopics() []string {
	return []string{
		TopicTransfersStarted,
		TopicTransfersCompleted,
		TopicTransfersRecovered,
		TopicTransfersCanceled,
	}
}
