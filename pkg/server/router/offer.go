package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/pkg/server/framework"
	"github.com/openvci/vci-service/pkg/service/common"
	svcframework "github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/service/offer"
)

const (
	OfferIDParam = "id"

	errOfferNotFound = "offer_not_found"
	errServerError   = "server_error"
)

type OfferRouter struct {
	service *offer.Service
}

func NewOfferRouter(s svcframework.Service) (*OfferRouter, error) {
	if s == nil {
		return nil, errors.New("service cannot be nil")
	}
	offerService, ok := s.(*offer.Service)
	if !ok {
		return nil, fmt.Errorf("could not create offer router with service type: %s", s.Type())
	}
	return &OfferRouter{service: offerService}, nil
}

// GetCredentialOffer serves a credential offer document by offer id.
func (or *OfferRouter) GetCredentialOffer(c *gin.Context) {
	offerID := framework.GetParam(c, OfferIDParam)
	if offerID == nil {
		respondOIDCError(c, http.StatusBadRequest, errOfferNotFound, "offer id is required")
		return
	}

	response, err := or.service.GetCredentialOffer(c, offer.GetCredentialOfferRequest{
		OfferID:      *offerID,
		TenantDomain: tenantDomain(c),
	})
	if err != nil {
		if common.KindOf(err).IsClientError() {
			respondOIDCError(c, http.StatusBadRequest, errOfferNotFound, err.Error())
			return
		}
		logrus.WithError(err).Error("resolving credential offer failed")
		respondOIDCError(c, http.StatusInternalServerError, errServerError, "credential offer could not be resolved")
		return
	}
	framework.Respond(c, response.Offer, http.StatusOK)
}
