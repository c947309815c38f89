// Package api exposes a notification feed over HTTP.
//
// Routes (relative to where the router is mounted):
//
//	GET    /notifications               filtered view (?type=&q=&order=&unread=&limit=&group=day)
//	GET    /notifications/unread-count  unread counter
//	GET    /notifications/stream        server-sent events with every store change
//	GET    /notifications/{id}          single notification
//	POST   /notifications/{id}/read     mark one as read
//	POST   /notifications/read-all      mark all as read
//	POST   /notifications/test          submit a local test notification
//	DELETE /notifications               clear the feed
//	GET    /status                      channel status and ingestion stats
//
// Every JSON body uses the same envelope: {"data": ..., "meta": ..., "error": ...}.
package api
