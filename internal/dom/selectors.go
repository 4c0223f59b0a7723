package dom

// Selectors against the hosted page's markup. The page is not a stable
// contract; these are maintained empirically and every lookup must
// tolerate a miss.
const (
	selFooterPlayer = "#footerPlayer"

	selPlayButton  = `#footerPlayer [data-test="play"]`
	selPauseButton = `#footerPlayer [data-test="pause"]`
	selNextButton  = `#footerPlayer [data-test="next"]`
	selPrevButton  = `#footerPlayer [data-test="previous"]`

	selTitle       = `#footerPlayer [data-test="footer-track-title"] a`
	selArtists     = `#footerPlayer .artist-link`
	selCurrentTime = `#footerPlayer [data-test="current-time"]`
	selDuration    = `#footerPlayer [data-test="duration"]`
	selArtwork     = `#footerPlayer [data-test="current-media-imagery"] img`

	selShuffleButton  = `#footerPlayer [data-test="shuffle"]`
	selRepeatButton   = `#footerPlayer [data-test="repeat"]`
	selFavoriteButton = `#footerPlayer [data-test="footer-favorite-button"]`

	// Currently-playing row in the play queue; carries the track id and
	// a generic album cell usable from any page context.
	selCurrentRow      = `[data-test="current-media-item"]`
	selCurrentRowAlbum = `[data-test="current-media-item"] [data-test="table-cell-album"] a`

	// Album-page header, only meaningful while an album page is open.
	selAlbumHeader = `#main [data-test="title"]`
)

// Attribute names read from the footer controls. ARIA state values are
// the strings "true"/"false".
const (
	attrChecked  = "aria-checked"
	attrTrackID  = "data-track-id"
	attrRepeat   = "data-type"
	attrImageSrc = "src"
)

// data-type values of the repeat button.
const (
	repeatAttrAll    = "button__repeatAll"
	repeatAttrSingle = "button__repeatSingle"
)
