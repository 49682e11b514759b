package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"
)

const (
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDocument = nsR + "/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = nsR + "/extended-properties"
	relSlideMaster    = nsR + "/slideMaster"
	relSlideLayout    = nsR + "/slideLayout"
	relSlide          = nsR + "/slide"
	relTheme          = nsR + "/theme"
	relPresProps      = nsR + "/presProps"
	relViewProps      = nsR + "/viewProps"
	relTableStyles    = nsR + "/tableStyles"
	relImage          = nsR + "/image"
	relHyperlink      = nsR + "/hyperlink"

	ctSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"

	partContentTypes = "[Content_Types].xml"
	partPresentation = "ppt/presentation.xml"
	partPresRels     = "ppt/_rels/presentation.xml.rels"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	pmlRoot   = `xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"`
)

// Default slide canvas: 10in x 7.5in.
const (
	DefaultWidth  int64 = 9144000
	DefaultHeight int64 = 6858000
)

// emptyGroup is the mandatory group header of every shape tree.
const emptyGroup = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

type relationship struct {
	ID       string `xml:"Id,attr"`
	Type     string `xml:"Type,attr"`
	Target   string `xml:"Target,attr"`
	External bool   `xml:"-"`
}

func writeRelationships(rels []relationship) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="` + nsRel + `">`)
	for _, rel := range rels {
		writeRelationship(&buf, rel)
	}
	buf.WriteString(`</Relationships>`)
	return buf.Bytes()
}

func writeRelationship(buf *bytes.Buffer, rel relationship) {
	buf.WriteString(`<Relationship Id="`)
	writeAttr(buf, rel.ID)
	buf.WriteString(`" Type="`)
	writeAttr(buf, rel.Type)
	buf.WriteString(`" Target="`)
	writeAttr(buf, rel.Target)
	buf.WriteString(`"`)
	if rel.External {
		buf.WriteString(` TargetMode="External"`)
	}
	buf.WriteString(`/>`)
}

func writeAttr(buf *bytes.Buffer, s string) {
	xml.EscapeText(buf, []byte(s))
}

// blankParts returns the package parts of a presentation with one master,
// one blank layout and no slides.
func blankParts(title string) map[string][]byte {
	created := time.Now().UTC().Format(time.RFC3339)
	parts := map[string][]byte{
		partContentTypes: []byte(xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
			`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
			`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
			`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
			`<Override PartName="/ppt/presProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"/>` +
			`<Override PartName="/ppt/viewProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"/>` +
			`<Override PartName="/ppt/tableStyles.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"/>` +
			`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
			`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
			`</Types>`),

		"_rels/.rels": writeRelationships([]relationship{
			{ID: "rId1", Type: relOfficeDocument, Target: "ppt/presentation.xml"},
			{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
			{ID: "rId3", Type: relExtendedProps, Target: "docProps/app.xml"},
		}),

		"docProps/core.xml": coreProps(title, created),

		"docProps/app.xml": []byte(xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
			`<Application>techdeck</Application><PresentationFormat>On-screen Show (4:3)</PresentationFormat></Properties>`),

		partPresentation: []byte(xmlHeader + `<p:presentation ` + pmlRoot + ` saveSubsetFonts="1">` +
			`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
			fmt.Sprintf(`<p:sldSz cx="%d" cy="%d"/>`, DefaultWidth, DefaultHeight) +
			fmt.Sprintf(`<p:notesSz cx="%d" cy="%d"/>`, DefaultHeight, DefaultWidth) +
			`</p:presentation>`),

		partPresRels: writeRelationships([]relationship{
			{ID: "rId1", Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"},
			{ID: "rId2", Type: relTheme, Target: "theme/theme1.xml"},
			{ID: "rId3", Type: relPresProps, Target: "presProps.xml"},
			{ID: "rId4", Type: relViewProps, Target: "viewProps.xml"},
			{ID: "rId5", Type: relTableStyles, Target: "tableStyles.xml"},
		}),

		"ppt/slideMasters/slideMaster1.xml": []byte(xmlHeader + `<p:sldMaster ` + pmlRoot + `>` +
			`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
			`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
			`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
			`<p:txStyles>` +
			`<p:titleStyle><a:lvl1pPr><a:defRPr sz="4400"/></a:lvl1pPr></p:titleStyle>` +
			`<p:bodyStyle><a:lvl1pPr><a:defRPr sz="2800"/></a:lvl1pPr></p:bodyStyle>` +
			`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle>` +
			`</p:txStyles></p:sldMaster>`),

		"ppt/slideMasters/_rels/slideMaster1.xml.rels": writeRelationships([]relationship{
			{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
			{ID: "rId2", Type: relTheme, Target: "../theme/theme1.xml"},
		}),

		"ppt/slideLayouts/slideLayout1.xml": []byte(xmlHeader + `<p:sldLayout ` + pmlRoot + ` type="blank" preserve="1">` +
			`<p:cSld name="Blank"><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
			`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`),

		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": writeRelationships([]relationship{
			{ID: "rId1", Type: relSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
		}),

		"ppt/theme/theme1.xml": []byte(xmlHeader + themeXML),

		"ppt/presProps.xml": []byte(xmlHeader + `<p:presentationPr ` + pmlRoot + `/>`),

		"ppt/viewProps.xml": []byte(xmlHeader + `<p:viewPr ` + pmlRoot + `><p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`),

		"ppt/tableStyles.xml": []byte(xmlHeader + `<a:tblStyleLst xmlns:a="` + nsA + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`),
	}
	return parts
}

// blankOrder is the zip entry order for a fresh package.
var blankOrder = []string{
	partContentTypes,
	"_rels/.rels",
	"docProps/core.xml",
	"docProps/app.xml",
	partPresentation,
	partPresRels,
	"ppt/slideMasters/slideMaster1.xml",
	"ppt/slideMasters/_rels/slideMaster1.xml.rels",
	"ppt/slideLayouts/slideLayout1.xml",
	"ppt/slideLayouts/_rels/slideLayout1.xml.rels",
	"ppt/theme/theme1.xml",
	"ppt/presProps.xml",
	"ppt/viewProps.xml",
	"ppt/tableStyles.xml",
}

func coreProps(title, created string) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	buf.WriteString(`<dc:title>`)
	xml.EscapeText(&buf, []byte(title))
	buf.WriteString(`</dc:title><dc:creator>techdeck</dc:creator>`)
	buf.WriteString(`<dcterms:created xsi:type="dcterms:W3CDTF">` + created + `</dcterms:created>`)
	buf.WriteString(`<dcterms:modified xsi:type="dcterms:W3CDTF">` + created + `</dcterms:modified>`)
	buf.WriteString(`</cp:coreProperties>`)
	return buf.Bytes()
}

const themeXML = `<a:theme xmlns:a="` + nsA + `" name="Techdeck">` +
	`<a:themeElements>` +
	`<a:clrScheme name="Techdeck">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="331236"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="E6E8EF"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="D6A84C"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="4F46E5"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="16A34A"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="0EA5E9"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="F97316"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="2563EB"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Techdeck">` +
	`<a:majorFont><a:latin typeface="Segoe UI Semibold"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Segoe UI"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Techdeck">` +
	`<a:fillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements>` +
	`<a:objectDefaults/><a:extraClrSchemeLst/>` +
	`</a:theme>`
