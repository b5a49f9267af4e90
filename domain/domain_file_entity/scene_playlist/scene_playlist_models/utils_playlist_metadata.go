package scene_playlist_models

import "go.mongodb.org/mongo-driver/bson"

func (m *PlaylistMetadata) ToUpdateDoc() bson.M {
	data, _ := bson.Marshal(m)
	var raw bson.M
	_ = bson.Unmarshal(data, &raw)

	delete(raw, "_id")
	delete(raw, "created_at")

	return bson.M{"$set": raw}
}
