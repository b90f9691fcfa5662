package backend

// Command names understood by the backend
const (
	CmdListAppearancesByCategory = "list_appearances_by_category"
	CmdGetAppearanceCount        = "get_appearance_count"
	CmdGetCompleteAppearance     = "get_complete_appearance"
	CmdGetItemSubcategories      = "get_item_subcategories"
	CmdDuplicateAppearance       = "duplicate_appearance"
	CmdCopyAppearanceFlags       = "copy_appearance_flags"
	CmdPasteAppearanceFlags      = "paste_appearance_flags"
	CmdDeleteAppearance          = "delete_appearance"
	CmdSaveAppearancesFile       = "save_appearances_file"
	CmdExportAppearanceToJSON    = "export_appearance_to_json"

	CmdListAllSounds             = "list_all_sounds"
	CmdListNumericSoundEffects   = "list_numeric_sound_effects"
	CmdGetNumericSoundEffectByID = "get_numeric_sound_effect_by_id"
	CmdListAmbienceStreams       = "list_ambience_streams"
	CmdListAmbienceObjectStreams = "list_ambience_object_streams"
	CmdListMusicTemplates        = "list_music_templates"
)
