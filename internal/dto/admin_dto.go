package dto

// QuestionCreateDTO is one question row for bulk import, from JSON or YAML.
type QuestionCreateDTO struct {
	Line        int     `json:"line" yaml:"line" binding:"required,gt=0" validate:"required,gt=0"`
	PromptText  string  `json:"prompt_text" yaml:"prompt_text" binding:"required" validate:"required"`
	OptionsText *string `json:"options_text" yaml:"options_text"`
	PassageText *string `json:"passage_text" yaml:"passage_text"`
	AnswerSpec  string  `json:"answer_spec" yaml:"answer_spec" binding:"required" validate:"required"`
}

// QuestionImportDTO is the bulk import payload.
type QuestionImportDTO struct {
	Questions []QuestionCreateDTO `json:"questions" yaml:"questions" binding:"required,min=1,dive" validate:"required,min=1,dive"`
}
