package testdata

// Catalog is a small JSON song catalog
func Catalog() []byte {
	return []byte(catalog)
}

// StepMania is a two measure 4 key .sm chart at 120 bpm
func StepMania() []byte {
	return []byte(stepMania)
}

const catalog = `{
  "song_sample": {
    "id": "song_sample",
    "title": "Sample Song",
    "bpm": 120,
    "duration": 60,
    "audio": "assets/sample.mp3",
    "easy": [{"time": 1.0, "lane": 0}, {"time": 2.0, "lane": 1}],
    "normal": [{"time": 1.0, "lane": 0}, {"time": 1.5, "lane": 2}, {"time": 2.0, "lane": 1}],
    "hard": [{"time": 0.5, "lane": 3}, {"time": 1.0, "lane": 0}, {"time": 1.25, "lane": 1}, {"time": 1.5, "lane": 2}]
  },
  "short": {
    "title": "Short",
    "bpm": 140,
    "duration": 2.0,
    "easy": [{"time": 1.5, "lane": 2}, {"time": 1.0, "lane": 0}, {"lane": 1}, {"time": 1.0, "lane": 3}]
  }
}`

const stepMania = `#TITLE:Sample Song;
#ARTIST:nobody;
#MUSIC:sample.ogg;
#OFFSET:-0.100;
#BPMS:0.000=120.000;
//---------------dance-single - ----------------
#NOTES:
     dance-single:
     :
     Easy:
     1:
     0.0,0.0,0.0,0.0,0.0:
1000
0100
0010
0001
,  // measure 2
2000
0000
3M00
0000
;
//---------------dance-double - ----------------
#NOTES:
     dance-double:
     :
     Hard:
     5:
     0.0,0.0,0.0,0.0,0.0:
10000001
00000000
;
//---------------pump-single - ----------------
#NOTES:
     pump-single:
     :
     Hard:
     5:
     0.0,0.0,0.0,0.0,0.0:
10000
;
`
