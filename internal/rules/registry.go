package rules

import (
	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
)

// pair binds a detector to its fixer. fixer may be nil.
type pair struct {
	detector a11y.Detector
	fixer    a11y.Fixer
}

// catalog lists every rule in registry order. The order is also the default
// remediation order, so rules whose fixes change structure come before the
// rules that inspect that structure:
//   - prefer-semantic-element before heading and landmark checks
//   - decorative-image before missing-alt-text
//   - empty-heading before skipped-heading-level
//   - invalid-aria-role before redundant-aria
//   - missing-table-header before missing-th-scope
func catalog() []pair {
	return []pair{
		{preferSemanticElement{rule{preferSemanticElementInfo}}, auto(preferSemanticElementInfo.ID, fixPreferSemanticElement)},

		{decorativeImage{rule{decorativeImageInfo}}, auto(decorativeImageInfo.ID, fixDecorativeImage)},
		{missingAltText{rule{missingAltTextInfo}}, auto(missingAltTextInfo.ID, fixMissingAltText)},
		{redundantAltText{rule{redundantAltTextInfo}}, auto(redundantAltTextInfo.ID, fixRedundantAltText)},
		{longAltText{rule{longAltTextInfo}}, manual(longAltTextInfo.ID)},

		{emptyHeading{rule{emptyHeadingInfo}}, auto(emptyHeadingInfo.ID, fixEmptyHeading)},
		{skippedHeadingLevel{rule{skippedHeadingLevelInfo}}, auto(skippedHeadingLevelInfo.ID, fixSkippedHeadingLevel)},

		{invalidAriaRole{rule{invalidAriaRoleInfo}}, auto(invalidAriaRoleInfo.ID, fixInvalidAriaRole)},
		{redundantAria{rule{redundantAriaInfo}}, auto(redundantAriaInfo.ID, fixRedundantAria)},
		{ariaHiddenFocusable{rule{ariaHiddenFocusableInfo}}, auto(ariaHiddenFocusableInfo.ID, fixAriaHiddenFocusable)},
		{invalidAriaAttribute{rule{invalidAriaAttributeInfo}}, auto(invalidAriaAttributeInfo.ID, fixInvalidAriaAttribute)},
		{invalidAriaValue{rule{invalidAriaValueInfo}}, auto(invalidAriaValueInfo.ID, fixInvalidAriaValue)},
		{brokenAriaReference{rule{brokenAriaReferenceInfo}}, manual(brokenAriaReferenceInfo.ID)},

		{missingMainLandmark{rule{missingMainLandmarkInfo}}, manual(missingMainLandmarkInfo.ID)},
		{duplicateMainLandmark{rule{duplicateMainLandmarkInfo}}, manual(duplicateMainLandmarkInfo.ID)},

		{emptyLink{rule{emptyLinkInfo}}, auto(emptyLinkInfo.ID, fixEmptyLink)},
		{genericLinkText{rule{genericLinkTextInfo}}, auto(genericLinkTextInfo.ID, fixGenericLinkText)},
		{duplicateLinkText{rule{duplicateLinkTextInfo}}, manual(duplicateLinkTextInfo.ID)},
		{linkOpensNewWindow{rule{linkOpensNewWindowInfo}}, auto(linkOpensNewWindowInfo.ID, fixLinkOpensNewWindow)},
		{redundantTitleAttribute{rule{redundantTitleAttributeInfo}}, auto(redundantTitleAttributeInfo.ID, fixRedundantTitleAttribute)},

		{missingFormLabel{rule{missingFormLabelInfo}}, auto(missingFormLabelInfo.ID, fixMissingFormLabel)},
		{emptyButton{rule{emptyButtonInfo}}, auto(emptyButtonInfo.ID, fixEmptyButton)},
		{invalidAutocomplete{rule{invalidAutocompleteInfo}}, auto(invalidAutocompleteInfo.ID, fixInvalidAutocomplete)},
		{fieldsetMissingLegend{rule{fieldsetMissingLegendInfo}}, manual(fieldsetMissingLegendInfo.ID)},

		{missingTableHeader{rule{missingTableHeaderInfo}}, auto(missingTableHeaderInfo.ID, fixMissingTableHeader)},
		{missingThScope{rule{missingThScopeInfo}}, auto(missingThScopeInfo.ID, fixMissingThScope)},
		{emptyTableHeader{rule{emptyTableHeaderInfo}}, manual(emptyTableHeaderInfo.ID)},

		{insufficientColorContrast{rule{insufficientColorContrastInfo}}, manual(insufficientColorContrastInfo.ID)},

		{missingKeyboardAccess{rule{missingKeyboardAccessInfo}}, auto(missingKeyboardAccessInfo.ID, fixMissingKeyboardAccess)},
		{keyboardTrap{rule{keyboardTrapInfo}}, manual(keyboardTrapInfo.ID)},
		{positiveTabindex{rule{positiveTabindexInfo}}, manual(positiveTabindexInfo.ID)},
		{pointerGestureAlternative{rule{pointerGestureAlternativeInfo}}, manual(pointerGestureAlternativeInfo.ID)},

		{mediaAutoplay{rule{mediaAutoplayInfo}}, auto(mediaAutoplayInfo.ID, fixMediaAutoplay)},
		{mediaMissingCaptions{rule{mediaMissingCaptionsInfo}}, manual(mediaMissingCaptionsInfo.ID)},
		{iframeMissingTitle{rule{iframeMissingTitleInfo}}, auto(iframeMissingTitleInfo.ID, fixIframeMissingTitle)},
		{obsoleteElement{rule{obsoleteElementInfo}}, auto(obsoleteElementInfo.ID, fixObsoleteElement)},
		{metaRefresh{rule{metaRefreshInfo}}, manual(metaRefreshInfo.ID)},
		{viewportZoomDisabled{rule{viewportZoomDisabledInfo}}, auto(viewportZoomDisabledInfo.ID, fixViewportZoomDisabled)},

		{invalidLang{rule{invalidLangInfo}}, auto(invalidLangInfo.ID, fixInvalidLang)},
		{duplicateID{rule{duplicateIDInfo}}, auto(duplicateIDInfo.ID, fixDuplicateID)},
		{invalidListStructure{rule{invalidListStructureInfo}}, auto(invalidListStructureInfo.ID, fixInvalidListStructure)},
	}
}

// Register adds the full rule set to reg in catalog order.
func Register(reg *a11y.Registry) error {
	for _, p := range catalog() {
		if err := reg.Register(p.detector, p.fixer); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a registry holding the full rule set.
func Default() *a11y.Registry {
	reg := a11y.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}

// AriaAttributes lists every aria-* attribute the rules recognize, sorted.
// Output sanitizers use it to keep remediated markup intact.
func AriaAttributes() []string {
	out := make([]string, len(ariaAttributeList))
	copy(out, ariaAttributeList)
	return out
}
