package testutil

import "testing/fstest"

// DatasetJSON is a small campus dataset: three categories and four locations.
const DatasetJSON = `{
  "mapCenter": {"lat": 44.0448, "lng": -123.0726, "zoom": 16},
  "categories": {
    "historic": {"name": "Historic Sites", "color": "#8B4513", "icon": "🏛️", "description": "Sites of past actions"},
    "gathering": {"name": "Gathering Spaces", "color": "#228B22", "icon": "👥", "description": "Good for rallies"},
    "admin": {"name": "Administration", "color": "#4169E1", "icon": "🏢", "description": "Decision makers"}
  },
  "locations": [
    {"id": 1, "name": "Johnson Hall", "lat": 44.0451, "lng": -123.0752, "category": "admin", "description": "Main administration building", "history": "Occupied by students in 1970", "permits": "None for the lawn", "organizeHere": true},
    {"id": 2, "name": "EMU Amphitheater", "lat": 44.0447, "lng": -123.0737, "category": "gathering", "description": "Outdoor stage", "tips": "Bring a mic", "organizeHere": true},
    {"id": 3, "name": "Pioneer Cemetery", "lat": 44.0442, "lng": -123.0680, "category": "historic", "description": "Quiet historic grounds", "organizeHere": false},
    {"id": "library", "name": "Knight Library", "lat": 44.0432, "lng": -123.0775, "category": "unknown", "description": "Study and research", "organizeHere": false}
  ]
}`

// SiteFS returns a complete content tree for handler tests.
func SiteFS() fstest.MapFS {
	return fstest.MapFS{
		"data/home-content.md":                  {Data: []byte("# ROAR Center\n\nWelcome to the coalition.")},
		"data/campus-locations.json":            {Data: []byte(DatasetJSON)},
		"content/history/timeline.md":           {Data: []byte("---\ntitle: History of Campus Organizing\n---\n## 1970\n\nStudents occupied Johnson Hall.")},
		"content/organizations/current-orgs.md": {Data: []byte("## Member groups\n\n- Students for a Democratic Society")},
		"content/resources.yaml": {Data: []byte(`title: Resources
intro: Helpful links and tools for organizers
sections:
  - title: Legal Resources
    links:
      - title: National Lawyers Guild
        url: https://www.nlg.org/
        description: Legal support for activists
`)},
		"content/guides/index.yaml": {Data: []byte("guides:\n  - getting-started\n  - direct-action\n")},
		"content/guides/getting-started.md": {Data: []byte(`---
title: "Getting Started"
category: basics
date: 2024-01-10
tags: [intro, meetings, outreach, basics]
---
Start with a meeting.`)},
		"content/guides/direct-action.md": {Data: []byte(`---
title: "Direct Action"
category: tactics
date: 2023-05-01
featured: true
tags: [rights]
---
Know your rights before any action.`)},
	}
}
