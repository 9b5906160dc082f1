package job

const (
	MsgPleaseWait      = "⚙️ Please wait - another file is being processed for you."
	MsgFetching        = "🎧 Fetching %s link, please wait up to %ds..."
	MsgTimeout         = "⏳ API took too long to respond (timeout %ds). Try again."
	MsgFetchFailed     = "❌ Failed to fetch download link.\nReason: %v"
	MsgInvalidResponse = "⚠️ API did not return a valid download URL."
	MsgDownloadFailed  = "⚠️ Could not download file.\nReason: %v"
	MsgUploading       = "📤 Uploading... (%s)"
	MsgUploadFailed    = "❌ Upload failed.\nReason: %v"
	MsgInternal        = "⚠️ Something went wrong, please try again later."
	MsgInvalidData     = "Invalid button data."
)
