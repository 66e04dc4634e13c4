package playback

import (
	"time"

	"github.com/lmorel/chorus/internal/settings"
	"github.com/lmorel/chorus/internal/timeline"
)

func recordsFromTracks(ts []timeline.Track) []settings.TrackRecord {
	records := make([]settings.TrackRecord, len(ts))
	for i, t := range ts {
		records[i] = settings.TrackRecord{
			ID:       t.ID,
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			AlbumID:  t.AlbumID,
			Cover:    t.Cover,
			Provider: t.Provider,
			Duration: int64(t.Duration / time.Second),
		}
	}
	return records
}

func tracksFromRecords(rs []settings.TrackRecord) []timeline.Track {
	tracks := make([]timeline.Track, len(rs))
	for i, r := range rs {
		tracks[i] = timeline.Track{
			ID:       r.ID,
			Title:    r.Title,
			Artist:   r.Artist,
			Album:    r.Album,
			AlbumID:  r.AlbumID,
			Cover:    r.Cover,
			Provider: r.Provider,
			Duration: time.Duration(r.Duration) * time.Second,
		}
	}
	return tracks
}
