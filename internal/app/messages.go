package app

// User-facing texts.
const (
	msgSelectFile         = "Please select a PDF file to upload."
	msgUploadFailed       = "An error occurred during the upload."
	msgUploadError        = "An error occurred while uploading the PDF: "
	msgListError          = "An error occurred while listing documents. Please try again later."
	msgConfirmDelete      = "Are you sure you want to delete %s?"
	msgDeleted            = "PDF deleted successfully."
	msgDeleteFailed       = "Failed to delete PDF: "
	msgDeleteError        = "An error occurred while deleting the PDF: "
	msgUnknownError       = "Unknown error"
	msgHistoryCleared     = "Chat history cleared successfully."
	msgHistoryFailed      = "Failed to clear chat history."
	msgHistoryError       = "An error occurred while clearing chat history: "
	msgConfirmClearDB     = "Are you sure you want to delete all PDFs and clear the database?"
	msgDBCleared          = "Database and files cleared successfully"
	msgDBError            = "Error: "
	msgNetworkError       = "Network Error: "
	msgEnterQuery         = "Please enter a query."
	msgQueryError         = "An error occurred while processing the query: "
	msgPDFQueryError      = "An error occurred while processing the PDF query: "
	msgNoAnswer           = "No answer returned."
	msgConfirmNavigation  = "You have an ongoing process. If you leave now, you may not get the answer you are waiting for. Do you want to continue?"
	msgPreflightRejection = "Cannot upload %s: %v"
)

// Confirmation texts, for front-ends that ask before calling a handler.
const (
	ConfirmDeleteFormat = msgConfirmDelete
	ConfirmClearDB      = msgConfirmClearDB
	ConfirmNavigation   = msgConfirmNavigation
)
