package zoho

// Folder is a mailbox subdivision as returned by the folders endpoint.
// Zoho returns more fields; only the ones the service uses are decoded.
type Folder struct {
	ID   string `json:"folderId"`
	Name string `json:"folderName"`
	Path string `json:"path,omitempty"`
}

// Message is a message summary from the list endpoint. MessageID is the
// opaque reference used by content and mark-read calls.
type Message struct {
	MessageID string `json:"messageId"`
	Subject   string `json:"subject,omitempty"`
	From      string `json:"fromAddress,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// SendRequest describes an outbound message
type SendRequest struct {
	To      string
	CC      string
	Subject string
	Body    string
}

// foldersResponse wraps GET /folders
type foldersResponse struct {
	Data []Folder `json:"data"`
}

// messagesResponse wraps GET /messages/view
type messagesResponse struct {
	Data []Message `json:"data"`
}

// contentResponse wraps GET /folders/{f}/messages/{m}/content
type contentResponse struct {
	Data struct {
		Content string `json:"content"`
	} `json:"data"`
}

// markReadRequest is the PUT /updatemessage body
type markReadRequest struct {
	Mode      string   `json:"mode"`
	MessageID []string `json:"messageId"`
}

// sendMessageRequest is the POST /messages body
type sendMessageRequest struct {
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	CCAddress   string `json:"ccAddress,omitempty"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
}
