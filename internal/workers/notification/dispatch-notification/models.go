package dispatchnotification

type Input struct {
	UserID    string                 `json:"userId"`
	EventType string                 `json:"eventType"`
	Data      map[string]interface{} `json:"data"`
	Channels  []string               `json:"channels,omitempty"`
	// Async hands the notification to the background pool instead of
	// delivering it before the job completes.
	Async bool `json:"async,omitempty"`
}

type Output struct {
	Accepted  bool   `json:"notificationAccepted"`
	Delivered bool   `json:"notificationDelivered"`
	EventType string `json:"eventType"`
}
