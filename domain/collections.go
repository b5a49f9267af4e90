package domain

const (
	CollectionAppAccount = "app_auth_accounts"
)
const (
	CollectionAppPlaylistPluginConfigs = "app_configs_playlist_plugin"
)

const (
	CollectionFileEntityPlaylistScene = "file_entity_playlist_scene_playlist"
)
const (
	CollectionFileEntityPlaylistSceneScanRecord = "file_entity_playlist_scene_scan_record"
)
