package mail

import "fmt"

// NewTaskMessage は新規割り当て通知の件名と本文を返す。
func NewTaskMessage(title, description string) (subject, body string) {
	subject = "New Task Assigned"
	body = fmt.Sprintf("Hello, you have been assigned a new task: %s\n\nBrief: %s", title, description)
	return subject, body
}

// StatusUpdateMessage はステータス変更通知の件名と本文を返す。
func StatusUpdateMessage(title, oldStatus, newStatus string) (subject, body string) {
	subject = fmt.Sprintf("Task Status Updated: %s", title)
	body = fmt.Sprintf("The status of %q has changed from %s to %s.", title, oldStatus, newStatus)
	return subject, body
}
