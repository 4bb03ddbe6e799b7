package storyrun

const (
	WorkflowName = "story_run"

	ActivityGenerateUpload = "story_generate_upload"
	ActivityExtractRecord  = "story_extract_record"
)
